package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/colorfx/internal/filter"
	"github.com/AnyUserName/colorfx/internal/manifest"
	"github.com/AnyUserName/colorfx/internal/parallel"
	"github.com/AnyUserName/colorfx/internal/pipeline"
	"github.com/AnyUserName/colorfx/internal/preset"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	applyOutDir         string
	applyFilter         string
	applyRegion         string
	applyFormat         string
	applyQuality        int
	applyWorkers        int
	applyMaxParallelism int
	applyMinRows        int
	applyManifest       bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <input_dir>",
	Short: "Filter every image in a directory and write a manifest",
	Long: `Scans the input directory for images (png, jpeg, gif, bmp, tiff, webp),
applies the color filter to each one, optionally limited to a region,
and writes the results plus a manifest to the output directory.

Filters chain left to right: --filter "grayscale,contrast:1.3".
A raw matrix is given as "matrix:" followed by 20 numbers (5 rows of 4).
"inverse" replaces the chain to its left with its inverse: "sepia,inverse".

Output filenames are content-addressed: <key>.<filter-hash>.<hash>.ext`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	f := applyCmd.Flags()
	f.StringVarP(&applyOutDir, "out", "o", "./colorfx_out", "output directory")
	f.StringVarP(&applyFilter, "filter", "f", "", "filter expression (see 'colorfx presets')")
	f.StringVarP(&applyRegion, "region", "r", "", "limit to region x,y,w,h (default whole image)")
	f.StringVar(&applyFormat, "format", "", "output format: png, jpeg, webp, tiff, bmp (default: keep source)")
	f.IntVarP(&applyQuality, "quality", "q", 0, "quality 1-100 for lossy formats (0 = default)")
	f.IntVarP(&applyWorkers, "workers", "w", 0, "images processed at once (0 = NumCPU)")
	f.IntVar(&applyMaxParallelism, "max-parallelism", 0, "row tasks per image (0 = GOMAXPROCS)")
	f.IntVar(&applyMinRows, "min-rows-per-task", parallel.DefaultMinRowsPerTask, "minimum rows per row task")
	f.BoolVar(&applyManifest, "manifest", true, "write "+manifest.FileName)
	_ = applyCmd.MarkFlagRequired("filter")
	rootCmd.AddCommand(applyCmd)
}

func runApply(_ *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(applyOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	m, err := preset.Parse(applyFilter)
	if err != nil {
		return err
	}

	var region *filter.Region
	if applyRegion != "" {
		r, err := filter.ParseRegion(applyRegion)
		if err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}
		region = &r
	}

	settings := parallel.Settings{
		MaxDegreeOfParallelism: applyMaxParallelism,
		MinRowsPerTask:         applyMinRows,
	}.Normalize()

	log.WithFields(logrus.Fields{
		"input":  absInput,
		"output": absOutput,
		"filter": applyFilter,
	}).Debug("apply")
	log.Debugf("matrix:\n%s", m)
	log.Debugf("rows: %s", settings)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Filter:    applyFilter,
		Matrix:    m,
		Region:    region,
		Format:    applyFormat,
		Quality:   applyQuality,
		Workers:   applyWorkers,
		Parallel:  settings,
		Logger:    log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	man, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if applyManifest {
		if err := manifest.WriteJSON(man, filepath.Join(absOutput, manifest.FileName)); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}

	printApplyReport(man, time.Since(start))
	return nil
}

func printApplyReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("  colorfx apply complete")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Filter:      %s (%s)\n", m.Filter, m.MatrixHash)
	fmt.Printf("  Images:      %d\n", s.TotalOutputs)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Pixels:      %s\n", formatCount(s.FilteredPixels))
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d  (rows: parallelism=%d min=%d)\n",
			m.BuildInfo.Workers, m.BuildInfo.MaxParallelism, m.BuildInfo.MinRowsPerTask)
	}
	fmt.Println()

	keys := make([]string, 0, len(m.Outputs))
	for k := range m.Outputs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return m.Outputs[keys[i]].Effective.Pixels() > m.Outputs[keys[j]].Effective.Pixels()
	})
	n := len(keys)
	if n > 10 {
		n = 10
	}
	if n > 0 {
		fmt.Printf("  Top %d by filtered area:\n", n)
		for _, k := range keys[:n] {
			o := m.Outputs[k]
			fmt.Printf("    %-40s %5dx%-5d → %s\n", truncKey(k, 40), o.Effective.Width, o.Effective.Height, o.Path)
		}
		fmt.Println()
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func formatCount(n int64) string {
	switch {
	case n >= 1e6:
		return fmt.Sprintf("%.1f MP", float64(n)/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1f KP", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
