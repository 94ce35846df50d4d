package imaging

import (
	"fmt"
	"slices"

	"github.com/anthonynsimon/bild/parallel"
)

// MedianBlur replaces every channel value with the median of its
// ksize×ksize neighborhood in src.
//
// Channels are filtered independently, so isolated bright or dark pixels
// disappear while edges stay sharp. Neighbors outside the image are taken
// from the nearest edge pixel (replicated border). ksize must be a positive
// odd number; 1 returns an unchanged copy.
func MedianBlur(src RGB, ksize int) (RGB, error) {
	if src.Empty() {
		return RGB{}, ErrEmptyImage
	}
	if err := checkKernelSize(ksize); err != nil {
		return RGB{}, err
	}

	width, height := src.Width(), src.Height()
	dst := RGB{img: newOpaqueRGBA(width, height)}
	radius := ksize / 2
	mid := ksize * ksize / 2

	parallel.Line(height, func(start, end int) {
		window := [3][]uint8{
			make([]uint8, ksize*ksize),
			make([]uint8, ksize*ksize),
			make([]uint8, ksize*ksize),
		}
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				n := 0
				for ky := -radius; ky <= radius; ky++ {
					py := clamp(y+ky, 0, height-1)
					for kx := -radius; kx <= radius; kx++ {
						px := clamp(x+kx, 0, width-1)
						i := src.img.PixOffset(px, py)
						window[0][n] = src.img.Pix[i]
						window[1][n] = src.img.Pix[i+1]
						window[2][n] = src.img.Pix[i+2]
						n++
					}
				}
				o := dst.img.PixOffset(x, y)
				for c := 0; c < 3; c++ {
					slices.Sort(window[c])
					dst.img.Pix[o+c] = window[c][mid]
				}
			}
		}
	})

	return dst, nil
}

func checkKernelSize(ksize int) error {
	if ksize <= 0 || ksize%2 == 0 {
		return fmt.Errorf("kernel size must be a positive odd number, got %d", ksize)
	}
	return nil
}

// clamp constrains an integer value to the range [min, max].
// Used for replicated-border handling in neighborhood operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
