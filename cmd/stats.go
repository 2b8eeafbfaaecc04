package cmd

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/colorfx/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for an output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifest.Locate(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

type breakdown struct {
	count int
	bytes int64
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Filter:           %s\n", m.Filter)
	fmt.Printf("  Matrix hash:      %s\n", m.MatrixHash)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Row tasks:        parallelism=%d min-rows=%d\n",
			m.BuildInfo.MaxParallelism, m.BuildInfo.MinRowsPerTask)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Outputs:          %d\n", s.TotalOutputs)
	if s.Failed > 0 {
		fmt.Printf("  Failed:           %d\n", s.Failed)
	}
	fmt.Printf("  Filtered pixels:  %s\n", formatCount(s.FilteredPixels))
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		fmt.Printf("  Size ratio:       %.1f%% of input\n", float64(s.TotalOutputBytes)/float64(s.TotalInputBytes)*100)
	}
	fmt.Println()

	byFormat := map[string]breakdown{}
	conversions := map[string]int{}
	var partial, untouched int
	for _, o := range m.Outputs {
		b := byFormat[o.Format]
		b.count++
		b.bytes += o.Size
		byFormat[o.Format] = b
		if o.Source.Format != o.Format {
			conversions[o.Source.Format+" → "+o.Format]++
		}
		switch px := o.Effective.Pixels(); {
		case px == 0:
			untouched++
		case px < int64(o.Source.Width)*int64(o.Source.Height):
			partial++
		}
	}

	fmt.Println("  Format breakdown:")
	for _, f := range sortedKeys(byFormat) {
		b := byFormat[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, b.count, formatBytes(b.bytes))
	}
	if len(conversions) > 0 {
		fmt.Println("  Conversions:")
		for _, c := range sortedKeys(conversions) {
			fmt.Printf("    %-16s %4d\n", c, conversions[c])
		}
	}
	fmt.Println()

	fmt.Printf("  Region coverage:  %d full, %d partial, %d outside\n",
		len(m.Outputs)-partial-untouched, partial, untouched)

	var warnings []string
	for _, k := range sortedKeys(m.Outputs) {
		o := m.Outputs[k]
		if o.Effective.Pixels() == 0 {
			warnings = append(warnings, fmt.Sprintf("output %q: region %dx%d at %d,%d misses the image",
				k, o.Region.Width, o.Region.Height, o.Region.X, o.Region.Y))
		}
		if o.PixelDigest == "" {
			warnings = append(warnings, fmt.Sprintf("output %q: missing pixel digest", k))
		}
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
