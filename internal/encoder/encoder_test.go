package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// stubEncoder reports a configurable availability.
type stubEncoder struct {
	format string
	avail  bool
	alpha  bool
}

func (s *stubEncoder) Format() string                          { return s.format }
func (s *stubEncoder) Extension() string                       { return s.format }
func (s *stubEncoder) Available() bool                         { return s.avail }
func (s *stubEncoder) Alpha() bool                             { return s.alpha }
func (s *stubEncoder) Encode(image.Image, int) ([]byte, error) { return []byte(s.format), nil }

func testImage(alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 40), B: 90, A: alpha})
		}
	}
	return img
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistryWith(
		&stubEncoder{format: "png", avail: true, alpha: true},
		&stubEncoder{format: "jpeg", avail: true},
		&stubEncoder{format: "webp", avail: false, alpha: true},
	)

	tests := []struct {
		name      string
		requested string
		source    string
		alpha     bool
		want      string
	}{
		{"explicit", "jpeg", "png", false, "jpeg"},
		{"alias", "JPG", "", false, "jpeg"},
		{"keep source", "", "png", false, "png"},
		{"source loses alpha", "", "jpeg", true, "png"},
		{"unavailable opaque", "webp", "", false, "jpeg"},
		{"unavailable alpha", "webp", "", true, "png"},
		{"unknown source", "", "gif", false, "jpeg"},
	}
	for _, tt := range tests {
		enc, err := r.Resolve(tt.requested, tt.source, tt.alpha)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if enc.Format() != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, enc.Format(), tt.want)
		}
	}
}

func TestRegistry_NoFallback(t *testing.T) {
	r := NewRegistryWith()
	if _, err := r.Resolve("png", "", false); !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
	if r.String() != "no encoders available" {
		t.Errorf("String: %q", r.String())
	}
}

func TestRegistry_AvailableOrder(t *testing.T) {
	r := NewRegistryWith(&BMPEncoder{}, &JPEGEncoder{}, &PNGEncoder{})
	got := r.Available()
	want := []string{"png", "jpeg", "bmp"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBuiltinEncoders_Decodable(t *testing.T) {
	src := testImage(255)
	for _, enc := range []Encoder{&PNGEncoder{}, &JPEGEncoder{}, &BMPEncoder{}, &TIFFEncoder{}} {
		data, err := enc.Encode(src, 85)
		if err != nil {
			t.Errorf("%s: %v", enc.Format(), err)
			continue
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			t.Errorf("%s: decode: %v", enc.Format(), err)
			continue
		}
		if img.Bounds().Size() != src.Bounds().Size() {
			t.Errorf("%s: size %v, want %v", enc.Format(), img.Bounds().Size(), src.Bounds().Size())
		}
	}
}

func TestPNGEncoder_Lossless(t *testing.T) {
	src := testImage(128)
	data, err := (&PNGEncoder{}).Encode(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	got := imaging.Clone(img)
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Error("png roundtrip changed pixels")
	}
}

func TestHasAlpha(t *testing.T) {
	if HasAlpha(testImage(255)) {
		t.Error("opaque image reported alpha")
	}
	if !HasAlpha(testImage(200)) {
		t.Error("translucent image reported opaque")
	}
	if HasAlpha(image.NewGray(image.Rect(0, 0, 2, 2))) {
		t.Error("gray image reported alpha")
	}
}
