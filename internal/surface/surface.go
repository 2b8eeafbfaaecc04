// Package surface exposes images as row-addressable pixel buffers.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/AnyUserName/colorfx/internal/pixel"
	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedImage is returned by Wrap for image types without a
	// native pixel format.
	ErrUnsupportedImage = errors.New("surface: unsupported image type")
	// ErrOutOfBounds is returned when a requested row span leaves the buffer.
	ErrOutOfBounds = errors.New("surface: row span out of bounds")
)

// Buffer is a mutable image whose rows can be read and written in their
// native layout.
type Buffer interface {
	// Bounds returns the pixel rectangle of the buffer.
	Bounds() image.Rectangle
	// Format returns the codec for the buffer's storage layout.
	Format() pixel.Format
	// PixelRow returns the n pixels of row y starting at column x as a
	// writable view into the buffer.
	PixelRow(y, x, n int) ([]byte, error)
}

// PixBuffer is a Buffer over a contiguous Pix slice, the layout every
// standard library image type uses.
type PixBuffer struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
	format pixel.Format
}

// NewPixBuffer creates a buffer over pix. The slice is shared, not copied.
func NewPixBuffer(pix []byte, stride int, rect image.Rectangle, format pixel.Format) (*PixBuffer, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("surface: invalid pixel format %q", format.Name)
	}
	if rect.Dx() > 0 && stride < format.RowBytes(rect.Dx()) {
		return nil, fmt.Errorf("surface: stride %d too small for width %d", stride, rect.Dx())
	}
	if rect.Dy() > 0 && len(pix) < stride*(rect.Dy()-1)+format.RowBytes(rect.Dx()) {
		return nil, fmt.Errorf("surface: pix holds %d bytes, need %d rows of %d",
			len(pix), rect.Dy(), stride)
	}
	return &PixBuffer{Pix: pix, Stride: stride, Rect: rect, format: format}, nil
}

func (b *PixBuffer) Bounds() image.Rectangle { return b.Rect }
func (b *PixBuffer) Format() pixel.Format    { return b.format }

func (b *PixBuffer) PixelRow(y, x, n int) ([]byte, error) {
	if n < 0 || y < b.Rect.Min.Y || y >= b.Rect.Max.Y ||
		x < b.Rect.Min.X || x+n > b.Rect.Max.X {
		return nil, fmt.Errorf("%w: row %d, x=%d, n=%d, bounds %v", ErrOutOfBounds, y, x, n, b.Rect)
	}
	bpp := b.format.BytesPerPixel
	off := (y-b.Rect.Min.Y)*b.Stride + (x-b.Rect.Min.X)*bpp
	end := off + n*bpp
	return b.Pix[off:end:end], nil
}

// Wrap exposes img's pixel memory as a Buffer. Writes through the buffer
// modify img.
func Wrap(img image.Image) (Buffer, error) {
	switch m := img.(type) {
	case *image.NRGBA:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.NRGBA}, nil
	case *image.RGBA:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.RGBA}, nil
	case *image.NRGBA64:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.NRGBA64}, nil
	case *image.RGBA64:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.RGBA64}, nil
	case *image.Gray:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.Gray}, nil
	case *image.Gray16:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.Gray16}, nil
	case *image.Alpha:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.Alpha}, nil
	case *image.CMYK:
		return &PixBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect, format: pixel.CMYK}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
}

// Adopt returns a Buffer for img together with the image it writes to.
// Supported types are wrapped in place; anything else (YCbCr, paletted,
// custom types) is first copied into an *image.NRGBA with the same bounds.
func Adopt(img image.Image) (Buffer, draw.Image, error) {
	if buf, err := Wrap(img); err == nil {
		return buf, img.(draw.Image), nil
	}

	clone := imaging.Clone(img)
	// imaging.Clone rebases to (0,0); keep the source coordinate space.
	clone.Rect = clone.Rect.Add(img.Bounds().Min)
	buf, err := Wrap(clone)
	if err != nil {
		return nil, nil, err
	}
	return buf, clone, nil
}
