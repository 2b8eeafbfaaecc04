package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
)

// Unique temp file names across goroutines.
var tempCounter atomic.Int64

// WebPEncoder encodes images to WebP by shelling out to cwebp, which
// avoids cgo. Install: apt install webp / brew install webp.
type WebPEncoder struct {
	// Lossless selects cwebp -lossless; quality then sets effort.
	Lossless bool

	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Alpha() bool       { return true }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		if path, err := exec.LookPath("cwebp"); err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%w: cwebp not found in PATH", ErrUnavailable)
	}
	quality = clampQuality(quality)

	// cwebp reads files, so stage the source as PNG.
	id := tempCounter.Add(1)
	dir, err := os.MkdirTemp("", fmt.Sprintf("colorfx_webp_%d_*", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "src.png")
	dstPath := filepath.Join(dir, "dst.webp")
	if err := imaging.Save(img, srcPath, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return nil, fmt.Errorf("encode temp png: %w", err)
	}

	args := []string{"-q", strconv.Itoa(quality), "-m", "6", "-mt", "-quiet", "-exact"}
	if e.Lossless {
		args = append(args, "-lossless")
	}
	args = append(args, srcPath, "-o", dstPath)

	cmd := exec.Command(e.cwebpPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}
	return os.ReadFile(dstPath)
}
