package pixel

// Built-in formats matching the standard library image types.
var (
	// NRGBA is 8-bit straight RGBA (image.NRGBA).
	NRGBA = Format{Name: "nrgba", BytesPerPixel: 4, Decode: decodeNRGBA, Encode: encodeNRGBA}
	// RGBA is 8-bit premultiplied RGBA (image.RGBA).
	RGBA = Format{Name: "rgba", BytesPerPixel: 4, Decode: decodeRGBA, Encode: encodeRGBA}
	// NRGBA64 is 16-bit big-endian straight RGBA (image.NRGBA64).
	NRGBA64 = Format{Name: "nrgba64", BytesPerPixel: 8, Decode: decodeNRGBA64, Encode: encodeNRGBA64}
	// RGBA64 is 16-bit big-endian premultiplied RGBA (image.RGBA64).
	RGBA64 = Format{Name: "rgba64", BytesPerPixel: 8, Decode: decodeRGBA64, Encode: encodeRGBA64}
	// Gray is 8-bit luminance (image.Gray). Encode uses BT.601 weights.
	Gray = Format{Name: "gray", BytesPerPixel: 1, Decode: decodeGray, Encode: encodeGray}
	// Gray16 is 16-bit big-endian luminance (image.Gray16).
	Gray16 = Format{Name: "gray16", BytesPerPixel: 2, Decode: decodeGray16, Encode: encodeGray16}
	// Alpha is an 8-bit alpha mask over white (image.Alpha).
	Alpha = Format{Name: "alpha", BytesPerPixel: 1, Decode: decodeAlpha, Encode: encodeAlpha}
	// CMYK is 8-bit CMYK (image.CMYK), always opaque.
	CMYK = Format{Name: "cmyk", BytesPerPixel: 4, Decode: decodeCMYK, Encode: encodeCMYK}
)

// Luminance weights (BT.601), the same ones color.GrayModel uses.
const (
	lumR = 0.299
	lumG = 0.587
	lumB = 0.114
)

func luminance(v Vector4) float32 {
	return lumR*clamp01(v[0]) + lumG*clamp01(v[1]) + lumB*clamp01(v[2])
}

// ─── 8-bit RGBA ──────────────────────────────────────────────

func decodeNRGBA(src []byte, dst []Vector4) {
	src = src[:len(dst)*4]
	for i := range dst {
		s := src[i*4 : i*4+4 : i*4+4]
		dst[i] = Vector4{
			float32(s[0]) / 255,
			float32(s[1]) / 255,
			float32(s[2]) / 255,
			float32(s[3]) / 255,
		}
	}
}

func encodeNRGBA(src []Vector4, dst []byte) {
	dst = dst[:len(src)*4]
	for i, v := range src {
		d := dst[i*4 : i*4+4 : i*4+4]
		d[0] = to8(v[0])
		d[1] = to8(v[1])
		d[2] = to8(v[2])
		d[3] = to8(v[3])
	}
}

func decodeRGBA(src []byte, dst []Vector4) {
	src = src[:len(dst)*4]
	for i := range dst {
		s := src[i*4 : i*4+4 : i*4+4]
		a := s[3]
		if a == 0 {
			dst[i] = Vector4{}
			continue
		}
		fa := float32(a)
		dst[i] = Vector4{
			float32(s[0]) / fa,
			float32(s[1]) / fa,
			float32(s[2]) / fa,
			fa / 255,
		}
	}
}

func encodeRGBA(src []Vector4, dst []byte) {
	dst = dst[:len(src)*4]
	for i, v := range src {
		d := dst[i*4 : i*4+4 : i*4+4]
		a := clamp01(v[3]) * 255
		d[0] = uint8(clamp01(v[0])*a + 0.5)
		d[1] = uint8(clamp01(v[1])*a + 0.5)
		d[2] = uint8(clamp01(v[2])*a + 0.5)
		d[3] = uint8(a + 0.5)
	}
}

// ─── 16-bit RGBA ─────────────────────────────────────────────

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

func putBE16(b []byte, v uint16) {
	b[0] = uint8(v >> 8)
	b[1] = uint8(v)
}

func decodeNRGBA64(src []byte, dst []Vector4) {
	src = src[:len(dst)*8]
	for i := range dst {
		s := src[i*8 : i*8+8 : i*8+8]
		dst[i] = Vector4{
			float32(be16(s[0:])) / 65535,
			float32(be16(s[2:])) / 65535,
			float32(be16(s[4:])) / 65535,
			float32(be16(s[6:])) / 65535,
		}
	}
}

func encodeNRGBA64(src []Vector4, dst []byte) {
	dst = dst[:len(src)*8]
	for i, v := range src {
		d := dst[i*8 : i*8+8 : i*8+8]
		putBE16(d[0:], to16(v[0]))
		putBE16(d[2:], to16(v[1]))
		putBE16(d[4:], to16(v[2]))
		putBE16(d[6:], to16(v[3]))
	}
}

func decodeRGBA64(src []byte, dst []Vector4) {
	src = src[:len(dst)*8]
	for i := range dst {
		s := src[i*8 : i*8+8 : i*8+8]
		a := be16(s[6:])
		if a == 0 {
			dst[i] = Vector4{}
			continue
		}
		fa := float32(a)
		dst[i] = Vector4{
			float32(be16(s[0:])) / fa,
			float32(be16(s[2:])) / fa,
			float32(be16(s[4:])) / fa,
			fa / 65535,
		}
	}
}

func encodeRGBA64(src []Vector4, dst []byte) {
	dst = dst[:len(src)*8]
	for i, v := range src {
		d := dst[i*8 : i*8+8 : i*8+8]
		a := clamp01(v[3]) * 65535
		putBE16(d[0:], uint16(clamp01(v[0])*a+0.5))
		putBE16(d[2:], uint16(clamp01(v[1])*a+0.5))
		putBE16(d[4:], uint16(clamp01(v[2])*a+0.5))
		putBE16(d[6:], uint16(a+0.5))
	}
}

// ─── gray / alpha ────────────────────────────────────────────

func decodeGray(src []byte, dst []Vector4) {
	src = src[:len(dst)]
	for i, y := range src {
		f := float32(y) / 255
		dst[i] = Vector4{f, f, f, 1}
	}
}

func encodeGray(src []Vector4, dst []byte) {
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = to8(luminance(v))
	}
}

func decodeGray16(src []byte, dst []Vector4) {
	src = src[:len(dst)*2]
	for i := range dst {
		f := float32(be16(src[i*2:])) / 65535
		dst[i] = Vector4{f, f, f, 1}
	}
}

func encodeGray16(src []Vector4, dst []byte) {
	dst = dst[:len(src)*2]
	for i, v := range src {
		putBE16(dst[i*2:], to16(luminance(v)))
	}
}

func decodeAlpha(src []byte, dst []Vector4) {
	src = src[:len(dst)]
	for i, a := range src {
		dst[i] = Vector4{1, 1, 1, float32(a) / 255}
	}
}

func encodeAlpha(src []Vector4, dst []byte) {
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = to8(v[3])
	}
}

// ─── CMYK ────────────────────────────────────────────────────

func decodeCMYK(src []byte, dst []Vector4) {
	src = src[:len(dst)*4]
	for i := range dst {
		s := src[i*4 : i*4+4 : i*4+4]
		w := 1 - float32(s[3])/255
		dst[i] = Vector4{
			(1 - float32(s[0])/255) * w,
			(1 - float32(s[1])/255) * w,
			(1 - float32(s[2])/255) * w,
			1,
		}
	}
}

func encodeCMYK(src []Vector4, dst []byte) {
	dst = dst[:len(src)*4]
	for i, v := range src {
		d := dst[i*4 : i*4+4 : i*4+4]
		r, g, b := clamp01(v[0]), clamp01(v[1]), clamp01(v[2])
		w := max(r, g, b)
		if w == 0 {
			d[0], d[1], d[2], d[3] = 0, 0, 0, 255
			continue
		}
		d[0] = to8((w - r) / w)
		d[1] = to8((w - g) / w)
		d[2] = to8((w - b) / w)
		d[3] = to8(1 - w)
	}
}
