package detection

import (
	"github.com/ironsheep/ovenstate/internal/imaging"
)

// tan(22.5°) and tan(67.5°), used to bucket gradient directions.
const (
	tan22 = 0.41421356
	tan67 = 2.41421356
)

// edgeMap holds Canny edges together with the Sobel gradients that produced
// them. All slices are row-major with the given width.
type edgeMap struct {
	width, height int
	edges         []bool
	dx, dy        []int
}

// canny detects edges in src.
//
// The implementation follows the Canny edge detection algorithm without the
// initial blur (the pipeline smooths beforehand):
//
//  1. Gradient computation: unnormalized 3x3 Sobel operators, replicated
//     border, magnitude = |Gx| + |Gy|
//
//  2. Non-maximum suppression: keep only pixels that are maxima along the
//     gradient direction, quantized into four sectors
//
//  3. Hysteresis thresholding: pixels above high are strong edges; pixels
//     above low are kept only when 8-connected to a strong edge
//
// Border pixels are never edges.
func canny(src imaging.Gray, low, high float64) *edgeMap {
	width, height := src.Width(), src.Height()
	m := &edgeMap{
		width:  width,
		height: height,
		edges:  make([]bool, width*height),
		dx:     make([]int, width*height),
		dy:     make([]int, width*height),
	}
	mag := make([]int, width*height)

	at := func(x, y int) int {
		return int(src.At(clamp(x, 0, width-1), clamp(y, 0, height-1)))
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			gy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			i := y*width + x
			m.dx[i] = gx
			m.dy[i] = gy
			mag[i] = abs(gx) + abs(gy)
		}
	}

	// Non-maximum suppression. candidate: 0 none, 1 weak, 2 strong.
	candidate := make([]uint8, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			v := float64(mag[i])
			if v <= low {
				continue
			}

			ax := float64(abs(m.dx[i]))
			ay := float64(abs(m.dy[i]))

			var keep bool
			switch {
			case ay <= ax*tan22:
				// Horizontal gradient: compare left and right
				keep = mag[i] > mag[i-1] && mag[i] >= mag[i+1]
			case ay > ax*tan67:
				// Vertical gradient: compare above and below
				keep = mag[i] > mag[i-width] && mag[i] >= mag[i+width]
			default:
				// Diagonal gradient
				if (m.dx[i] < 0) == (m.dy[i] < 0) {
					keep = mag[i] > mag[i-width-1] && mag[i] > mag[i+width+1]
				} else {
					keep = mag[i] > mag[i-width+1] && mag[i] > mag[i+width-1]
				}
			}
			if !keep {
				continue
			}

			if v > high {
				candidate[i] = 2
			} else {
				candidate[i] = 1
			}
		}
	}

	// Hysteresis: grow strong edges through connected weak edges.
	stack := make([]int, 0, 64)
	for i, c := range candidate {
		if c == 2 && !m.edges[i] {
			m.edges[i] = true
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%width, p/width
			for ny := py - 1; ny <= py+1; ny++ {
				for nx := px - 1; nx <= px+1; nx++ {
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					n := ny*width + nx
					if candidate[n] != 0 && !m.edges[n] {
						m.edges[n] = true
						stack = append(stack, n)
					}
				}
			}
		}
	}

	return m
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
