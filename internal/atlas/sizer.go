package atlas

import (
	"math"
	"math/bits"
)

// sizeSlack inflates the ideal square side to absorb packing waste.
const sizeSlack = 1.3

// EstimateSize returns the side of the square atlas for images: the square
// root of their summed area times 1.3, rounded up to a power of two and
// clamped to maxSize. A non-positive maxSize disables the clamp.
func EstimateSize(images []Image, maxSize int) int {
	var total int64
	for _, img := range images {
		total += int64(img.Width) * int64(img.Height)
	}

	size := nextPow2(int(math.Sqrt(float64(total)) * sizeSlack))
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return size
}

// nextPow2 returns the smallest power of two >= x, with nextPow2(0) == 1.
func nextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}
