package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"image"
	"io"
	"math"

	"github.com/AnyUserName/colorfx/internal/colormatrix"
	"github.com/AnyUserName/colorfx/internal/filter"
	"github.com/AnyUserName/colorfx/internal/surface"
	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. Output filenames use 16 hex chars
// (64 bits).
func ContentHash(data []byte, hexLen int) string {
	return truncHex(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncHex(h.Sum64(), hexLen), nil
}

// MatrixHash identifies a color matrix by its exact float bits, so two
// filter chains producing the same matrix share a hash.
func MatrixHash(m colormatrix.Matrix, hexLen int) string {
	var b [5 * 4 * 4]byte
	for i, row := range m {
		for j, v := range row {
			binary.BigEndian.PutUint32(b[(i*4+j)*4:], math.Float32bits(v))
		}
	}
	return truncHex(xxhash.Sum64(b[:]), hexLen)
}

// PixelDigest hashes the native pixel bytes of buf inside region, row by
// row. The digest depends only on pixel values and the region's size,
// not on stride or padding.
func PixelDigest(buf surface.Buffer, region filter.Region) (string, error) {
	if err := region.Validate(); err != nil {
		return "", err
	}
	r := filter.Effective(buf.Bounds(), region)
	h := xxhash.New()

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(r.Dx()))
	binary.BigEndian.PutUint32(hdr[4:], uint32(r.Dy()))
	h.Write(hdr[:])

	for y := r.Min.Y; y < r.Max.Y; y++ {
		row, err := buf.PixelRow(y, r.Min.X, r.Dx())
		if err != nil {
			return "", err
		}
		h.Write(row)
	}
	return truncHex(h.Sum64(), 0), nil
}

// ImageDigest is PixelDigest over a whole image. Images without a native
// pixel format are digested after conversion to NRGBA.
func ImageDigest(img image.Image) (string, error) {
	buf, _, err := surface.Adopt(img)
	if err != nil {
		return "", err
	}
	return PixelDigest(buf, filter.Whole(img.Bounds()))
}

func truncHex(v uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
