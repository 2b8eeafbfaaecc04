// Package pixel converts rows of native pixel storage to and from
// normalized RGBA float vectors.
//
// A Format is resolved once per image buffer and then applied to whole
// rows, so there is no per-pixel dispatch:
//   - Decode fills one Vector4 per pixel, straight (non-premultiplied)
//     alpha, nominal range [0,1]
//   - Encode writes the vectors back over the native bytes, clamping each
//     component to the representable range and rounding half up
//
// Encode is destructive: it overwrites the only copy of the source row.
// Callers must finish decoding a row before encoding into it.
package pixel

// Vector4 is one pixel as R, G, B, A floats. Values may leave [0,1]
// between decode and encode.
type Vector4 [4]float32

// Format describes a native pixel layout and its row codecs.
type Format struct {
	// Name is a short identifier ("nrgba", "gray16", ...).
	Name string
	// BytesPerPixel is the stride of one pixel inside a row.
	BytesPerPixel int
	// Decode converts len(dst) pixels from src into dst.
	// len(src) must equal len(dst)*BytesPerPixel.
	Decode func(src []byte, dst []Vector4)
	// Encode converts src back into dst, overwriting it.
	// len(dst) must equal len(src)*BytesPerPixel.
	Encode func(src []Vector4, dst []byte)
}

// RowBytes returns the number of bytes n pixels occupy.
func (f Format) RowBytes(n int) int {
	return n * f.BytesPerPixel
}

// Valid reports whether the format has both codecs and a positive stride.
func (f Format) Valid() bool {
	return f.BytesPerPixel > 0 && f.Decode != nil && f.Encode != nil
}

func (f Format) String() string { return f.Name }

// clamp01 saturates s to [0,1]. NaN maps to 0.
func clamp01(s float32) float32 {
	if !(s > 0) {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// to8 quantizes a normalized sample to 8 bits.
func to8(s float32) uint8 {
	return uint8(clamp01(s)*255 + 0.5)
}

// to16 quantizes a normalized sample to 16 bits.
func to16(s float32) uint16 {
	return uint16(clamp01(s)*65535 + 0.5)
}
