package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PNGEncoder encodes images to PNG. It is the fallback for images with
// alpha.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Available() bool   { return true }
func (e *PNGEncoder) Alpha() bool       { return true }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024)

	err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
