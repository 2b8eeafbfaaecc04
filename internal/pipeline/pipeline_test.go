package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/colorfx/internal/colormatrix"
	"github.com/AnyUserName/colorfx/internal/filter"
	"github.com/AnyUserName/colorfx/internal/hasher"
	"github.com/AnyUserName/colorfx/internal/manifest"
	"github.com/AnyUserName/colorfx/internal/parallel"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func writeFixture(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 9), G: uint8(y * 7), B: 200, A: 255})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "b.png"), 2, 2)
	writeFixture(t, filepath.Join(dir, "sub", "a.JPG"), 2, 2)
	writeFixture(t, filepath.Join(dir, ".hidden", "c.png"), 2, 2)
	writeFixture(t, filepath.Join(dir, "out", "d.png"), 2, 2)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := ScanImages(dir, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources: %+v", len(sources), sources)
	}
	if sources[0].Key != "b" || sources[0].Format != "png" {
		t.Errorf("first: %+v", sources[0])
	}
	if sources[1].Key != "sub/a" || sources[1].Format != "jpeg" || sources[1].RelPath != "sub/a.JPG" {
		t.Errorf("second: %+v", sources[1])
	}
}

func TestRun_FiltersRegionAndWritesManifest(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFixture(t, filepath.Join(in, "wide.png"), 40, 20)
	writeFixture(t, filepath.Join(in, "nested", "tall.png"), 10, 30)

	log, _ := quietLogger()
	region := filter.Region{X: 5, Y: 0, Width: 100, Height: 10}
	p := New(Config{
		InputDir:  in,
		OutputDir: out,
		Filter:    "grayscale601",
		Matrix:    colormatrix.GrayscaleBT601(1),
		Region:    &region,
		Workers:   2,
		Parallel:  parallel.Settings{MaxDegreeOfParallelism: 4, MinRowsPerTask: 2},
		Logger:    log,
	})
	m, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Outputs) != 2 {
		t.Fatalf("outputs: %d", len(m.Outputs))
	}
	if m.MatrixHash != hasher.MatrixHash(colormatrix.GrayscaleBT601(1), 16) {
		t.Errorf("matrix hash: %s", m.MatrixHash)
	}
	if m.BuildInfo.MaxParallelism != 4 || m.BuildInfo.MinRowsPerTask != 2 {
		t.Errorf("build info: %+v", m.BuildInfo)
	}

	wide := m.Outputs["wide"]
	if wide.Effective != (manifest.Region{X: 5, Y: 0, Width: 35, Height: 10}) {
		t.Errorf("effective: %+v", wide.Effective)
	}
	if wide.Format != "png" {
		t.Errorf("format: %s", wide.Format)
	}

	got, err := imaging.Open(filepath.Join(out, filepath.FromSlash(wide.Path)))
	if err != nil {
		t.Fatal(err)
	}
	// Inside the region pixels are gray, outside they are untouched.
	r, g, b, _ := got.At(10, 5).RGBA()
	if r != g || g != b {
		t.Errorf("pixel (10,5) not gray: %d %d %d", r>>8, g>>8, b>>8)
	}
	c := color.NRGBAModel.Convert(got.At(2, 5)).(color.NRGBA)
	if c != (color.NRGBA{R: 18, G: 35, B: 200, A: 255}) {
		t.Errorf("pixel (2,5) changed: %+v", c)
	}
	c = color.NRGBAModel.Convert(got.At(10, 15)).(color.NRGBA)
	if c != (color.NRGBA{R: 90, G: 105, B: 200, A: 255}) {
		t.Errorf("pixel (10,15) changed: %+v", c)
	}

	manifestPath := filepath.Join(out, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		t.Fatal(err)
	}
	if errs := m.Validate(out, true); len(errs) != 0 {
		t.Errorf("validate: %v", errs)
	}
}

func TestRun_Deterministic(t *testing.T) {
	in := t.TempDir()
	writeFixture(t, filepath.Join(in, "img.png"), 33, 47)

	run := func(s parallel.Settings) manifest.Output {
		log, _ := quietLogger()
		m, err := New(Config{
			InputDir:  in,
			OutputDir: t.TempDir(),
			Filter:    "sepia",
			Matrix:    colormatrix.Sepia(1),
			Parallel:  s,
			Logger:    log,
		}).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return m.Outputs["img"]
	}
	a := run(parallel.Settings{MaxDegreeOfParallelism: 1})
	b := run(parallel.Settings{MaxDegreeOfParallelism: 8, MinRowsPerTask: 1})
	if a.PixelDigest != b.PixelDigest || a.Hash != b.Hash || a.Path != b.Path {
		t.Errorf("results differ across parallelism:\n%+v\n%+v", a, b)
	}
}

func TestRun_PartialAndTotalFailure(t *testing.T) {
	in := t.TempDir()
	writeFixture(t, filepath.Join(in, "good.png"), 4, 4)
	if err := os.WriteFile(filepath.Join(in, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	log, hook := quietLogger()
	m, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Filter: "identity", Matrix: colormatrix.Identity(), Logger: log}).
		Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Stats.Failed != 1 || len(m.Outputs) != 1 {
		t.Errorf("failed=%d outputs=%d", m.Stats.Failed, len(m.Outputs))
	}
	var sawError bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Data["source"] == "bad" {
			sawError = true
		}
	}
	if !sawError {
		t.Error("failure was not logged")
	}

	if err := os.Remove(filepath.Join(in, "good.png")); err != nil {
		t.Fatal(err)
	}
	_, err = New(Config{InputDir: in, OutputDir: t.TempDir(), Matrix: colormatrix.Identity(), Logger: log}).
		Run(context.Background())
	if !errors.Is(err, ErrAllFailed) {
		t.Errorf("got %v, want ErrAllFailed", err)
	}
}

func TestRun_NoImages(t *testing.T) {
	log, _ := quietLogger()
	_, err := New(Config{InputDir: t.TempDir(), OutputDir: t.TempDir(), Logger: log}).Run(context.Background())
	if !errors.Is(err, ErrNoImages) {
		t.Errorf("got %v, want ErrNoImages", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	in := t.TempDir()
	writeFixture(t, filepath.Join(in, "img.png"), 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log, _ := quietLogger()
	out := t.TempDir()
	m, err := New(Config{InputDir: in, OutputDir: out, Matrix: colormatrix.Identity(), Logger: log}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if m != nil {
		t.Error("cancelled run returned a manifest")
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Errorf("cancelled run wrote %d files", len(entries))
	}
}

func TestRun_DuplicateKeyNotWritten(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFixture(t, filepath.Join(in, "a.png"), 4, 4)
	writeFixture(t, filepath.Join(in, "a.jpg"), 4, 4)
	writeFixture(t, filepath.Join(in, "b.png"), 4, 4)

	log, hook := quietLogger()
	m, err := New(Config{InputDir: in, OutputDir: out, Filter: "sepia", Matrix: colormatrix.Sepia(1), Logger: log}).
		Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Stats.Failed != 1 || len(m.Outputs) != 2 {
		t.Fatalf("failed=%d outputs=%d", m.Stats.Failed, len(m.Outputs))
	}
	// a.jpg sorts before a.png and keeps the key.
	if got := m.Outputs["a"].Source.Path; got != "a.jpg" {
		t.Errorf("key a owned by %s", got)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(m.Outputs) {
		t.Errorf("%d files on disk for %d outputs", len(entries), len(m.Outputs))
	}

	var logged bool
	for _, e := range hook.AllEntries() {
		if err, ok := e.Data[logrus.ErrorKey].(error); ok && errors.Is(err, ErrDuplicateKey) {
			logged = true
		}
	}
	if !logged {
		t.Error("duplicate key was not logged")
	}
}

func TestOutputPath(t *testing.T) {
	got := outputPath("sub/cat", "0123456789abcdef", "fedcba9876543210", "png")
	if got != "sub/cat.01234567.fedcba98.png" {
		t.Errorf("got %s", got)
	}
}
