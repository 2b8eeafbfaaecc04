// Package filter applies a color matrix to a region of an image in place.
//
// Apply intersects the requested region with the image bounds, splits the
// result into row intervals and, for every row, decodes the native pixels
// into float vectors, transforms them and encodes them back over the
// source. Pixels outside the intersection are never touched.
package filter

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/AnyUserName/colorfx/internal/colormatrix"
	"github.com/AnyUserName/colorfx/internal/parallel"
	"github.com/AnyUserName/colorfx/internal/pixel"
	"github.com/AnyUserName/colorfx/internal/surface"
)

var (
	// ErrInvalidRegion is returned for regions with a negative width or
	// height.
	ErrInvalidRegion = errors.New("filter: invalid region")
	// ErrBufferLength is the panic value raised when a pixel row and its
	// vector buffer disagree in length.
	ErrBufferLength = errors.New("filter: pixel row and vector buffer lengths differ")
)

// Region is an axis-aligned rectangle in the image's coordinate space.
type Region struct {
	X, Y          int
	Width, Height int
}

// RegionOf converts r without canonicalizing it: a rectangle whose Max is
// left of or above its Min yields a negative size.
func RegionOf(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Whole returns the region covering all of b.
func Whole(b image.Rectangle) Region {
	return RegionOf(b.Canon())
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Validate rejects negative sizes.
func (r Region) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRegion, r)
	}
	return nil
}

// ParseRegion reads "x,y,w,h". Negative sizes parse and are rejected
// later by Validate.
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("%w: want x,y,w,h, got %q", ErrInvalidRegion, s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("%w: %q: %v", ErrInvalidRegion, p, err)
		}
		v[i] = n
	}
	return Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Processor applies one matrix with fixed parallel settings. It is safe
// for concurrent use; calls on disjoint images may overlap.
type Processor struct {
	matrix   colormatrix.Matrix
	settings parallel.Settings
	arena    parallel.Arena[pixel.Vector4]
}

// New creates a processor for m.
func New(m colormatrix.Matrix, s parallel.Settings) *Processor {
	return &Processor{matrix: m, settings: s.Normalize()}
}

// Matrix returns the matrix the processor applies.
func (p *Processor) Matrix() colormatrix.Matrix { return p.matrix }

// Settings returns the normalized parallel settings.
func (p *Processor) Settings() parallel.Settings { return p.settings }

// Apply transforms the pixels of buf inside region. It blocks until every
// row is done. An empty intersection is not an error.
func (p *Processor) Apply(buf surface.Buffer, region Region) error {
	if err := region.Validate(); err != nil {
		return err
	}
	effective := Effective(buf.Bounds(), region)
	if effective.Empty() {
		return nil
	}

	format := buf.Format()
	if !format.Valid() {
		return fmt.Errorf("filter: buffer has no usable pixel format %q", format.Name)
	}
	m := p.matrix
	x, width := effective.Min.X, effective.Dx()

	return parallel.IterateRowsWithTempBuffer(effective, p.settings, &p.arena,
		func(rows parallel.RowInterval, vectors []pixel.Vector4) error {
			for y := rows.Min; y < rows.Max; y++ {
				row, err := buf.PixelRow(y, x, width)
				if err != nil {
					return fmt.Errorf("filter: row %d: %w", y, err)
				}
				transformRow(format, row, vectors, &m)
			}
			return nil
		})
}

// Effective returns the part of region that lies inside bounds. The
// region must already be valid.
func Effective(bounds image.Rectangle, region Region) image.Rectangle {
	return region.Rect().Intersect(bounds)
}

// transformRow decodes the whole row into vectors, transforms them and
// encodes them back over row. The row is fully decoded before the first
// byte is overwritten.
func transformRow(format pixel.Format, row []byte, vectors []pixel.Vector4, m *colormatrix.Matrix) {
	if len(row) != format.RowBytes(len(vectors)) {
		panic(fmt.Errorf("%w: %d bytes for %d %s pixels", ErrBufferLength, len(row), len(vectors), format.Name))
	}
	format.Decode(row, vectors)
	m.TransformRow(vectors)
	format.Encode(vectors, row)
}

// ApplyFilter transforms region of buf with m using DefaultSettings.
func ApplyFilter(buf surface.Buffer, region Region, m colormatrix.Matrix) error {
	return New(m, parallel.DefaultSettings()).Apply(buf, region)
}

// ApplyImage filters img inside region. Images without a native pixel
// format are converted to *image.NRGBA first; the returned image is the
// one that was modified.
func ApplyImage(img image.Image, region Region, m colormatrix.Matrix, s parallel.Settings) (image.Image, error) {
	buf, dst, err := surface.Adopt(img)
	if err != nil {
		return nil, err
	}
	if err := New(m, s).Apply(buf, region); err != nil {
		return nil, err
	}
	return dst, nil
}
