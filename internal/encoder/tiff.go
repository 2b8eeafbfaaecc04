package encoder

import (
	"bytes"
	"image"

	"golang.org/x/image/tiff"
)

// TIFFEncoder writes Deflate-compressed TIFF.
type TIFFEncoder struct{}

func (e *TIFFEncoder) Format() string    { return "tiff" }
func (e *TIFFEncoder) Extension() string { return "tiff" }
func (e *TIFFEncoder) Available() bool   { return true }
func (e *TIFFEncoder) Alpha() bool       { return true }

func (e *TIFFEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
