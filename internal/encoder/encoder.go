// Package encoder turns filtered images into output file bytes.
package encoder

import (
	"errors"
	"image"
)

// ErrUnavailable is returned when an encoder's external tool is missing.
var ErrUnavailable = errors.New("encoder: unavailable")

// DefaultQuality is used for lossy formats when quality is out of range.
const DefaultQuality = 90

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "jpeg", "webp").
	Format() string

	// Encode converts the image to bytes. Lossless formats ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available reports whether the encoder can run. External encoders
	// (cwebp) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string

	// Alpha reports whether the format keeps the alpha channel.
	Alpha() bool
}

func clampQuality(q int) int {
	if q <= 0 || q > 100 {
		return DefaultQuality
	}
	return q
}

// HasAlpha reports whether any pixel of img is not fully opaque.
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
