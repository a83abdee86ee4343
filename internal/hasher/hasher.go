package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"image"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. Atlas files are named with 16 hex chars
// (64 bits), the full digest.
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// PixelHash hashes the visible pixels of img row by row, so sub-images
// and padded strides hash the same as a tight copy. Sprites with equal
// PixelHash and dimensions are byte-identical.
func PixelHash(img *image.NRGBA, hexLen int) string {
	h := xxhash.New()
	b := img.Bounds()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[:4], uint32(b.Dx()))
	binary.BigEndian.PutUint32(dims[4:], uint32(b.Dy()))
	h.Write(dims[:])

	rowLen := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		h.Write(img.Pix[off : off+rowLen])
	}
	return truncate(h.Sum64(), hexLen)
}

func truncate(sum uint64, hexLen int) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sum)
	full := hex.EncodeToString(buf[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
