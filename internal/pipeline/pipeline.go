// Package pipeline applies one color filter to every image under a
// directory and records the results in a manifest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/AnyUserName/colorfx/internal/colormatrix"
	"github.com/AnyUserName/colorfx/internal/encoder"
	"github.com/AnyUserName/colorfx/internal/filter"
	"github.com/AnyUserName/colorfx/internal/hasher"
	"github.com/AnyUserName/colorfx/internal/manifest"
	"github.com/AnyUserName/colorfx/internal/parallel"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoImages is returned when the input directory has no images.
	ErrNoImages = errors.New("pipeline: no images found")
	// ErrAllFailed is returned when every image failed.
	ErrAllFailed = errors.New("pipeline: all images failed")
	// ErrDuplicateKey marks a source whose key, its path without the
	// extension, is already taken by another source (a.png and a.jpg).
	ErrDuplicateKey = errors.New("pipeline: duplicate key")
)

// Config holds all parameters for a pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	// Filter is the expression Matrix was parsed from; it is recorded in
	// the manifest.
	Filter string
	Matrix colormatrix.Matrix
	// Region limits the filter to part of each image. Nil means the whole
	// image.
	Region *filter.Region
	// Format is the output format; empty keeps each source's format.
	Format  string
	Quality int
	// Workers is the number of images processed at once.
	Workers  int
	Parallel parallel.Settings
	Logger   logrus.FieldLogger
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg        Config
	registry   *encoder.Registry
	proc       *filter.Processor
	matrixHash string
	log        logrus.FieldLogger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.Parallel = cfg.Parallel.Normalize()
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Pipeline{
		cfg:        cfg,
		registry:   encoder.NewRegistry(),
		proc:       filter.New(cfg.Matrix, cfg.Parallel),
		matrixHash: hasher.MatrixHash(cfg.Matrix, 16),
		log:        log.WithField("filter", cfg.Filter),
	}
}

// Run processes every image and returns the manifest. Individual failures
// are logged and counted; the run fails only when no image succeeded.
// Sources sharing a key are not processed after the first one. A
// cancelled ctx stops the run with ctx.Err() and no manifest.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	p.log.Debug(p.registry.String())

	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, p.cfg.InputDir)
	}
	p.log.WithField("count", len(sources)).Info("found images")

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	owners := make(map[string]string, len(sources))
	for i, src := range sources {
		if owner, dup := owners[src.Key]; dup {
			results[i] = processResult{
				key: src.Key,
				err: fmt.Errorf("%w: %s and %s both map to %q", ErrDuplicateKey, owner, src.RelPath, src.Key),
			}
			continue
		}
		owners[src.Key] = src.RelPath

		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[idx] = processResult{key: s.Key, err: err}
				return
			}

			start := time.Now()
			results[idx] = p.processImage(s)
			entry := p.log.WithFields(logrus.Fields{
				"source":   s.RelPath,
				"duration": time.Since(start).Round(time.Microsecond),
			})
			if results[idx].err == nil {
				entry.WithField("region", results[idx].output.Effective).Debug("done")
			}
		}(i, src)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := manifest.New(p.cfg.Filter)
	m.MatrixHash = p.matrixHash
	m.Matrix = [5][4]float32(p.cfg.Matrix)

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			p.log.WithField("source", r.key).WithError(r.err).Error("failed")
			continue
		}
		m.Outputs[r.key] = r.output
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("%w: %d of %d", ErrAllFailed, failed, len(sources))
	}
	if failed > 0 {
		p.log.Warnf("%d of %d images had errors", failed, len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers:        p.cfg.Workers,
		MaxParallelism: p.cfg.Parallel.MaxDegreeOfParallelism,
		MinRowsPerTask: p.cfg.Parallel.MinRowsPerTask,
	}
	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}
