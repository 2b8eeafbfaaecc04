package encoder

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// JPEGEncoder encodes images to JPEG. Alpha is flattened by the encoder.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return "jpg" }
func (e *JPEGEncoder) Available() bool   { return true }
func (e *JPEGEncoder) Alpha() bool       { return false }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(clampQuality(quality)))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
