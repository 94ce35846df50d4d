package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// ReduceToGray collapses a smoothed mask to one intensity channel.
//
// BT.601 luminance weights (0.299, 0.587, 0.114) are applied to the mask as it
// reads when stored as a device image, see HSV.Image: value takes the red
// weight, saturation the green weight and hue the blue weight. Results are
// rounded to the nearest integer.
func ReduceToGray(src HSV) Gray {
	width, height := src.Width(), src.Height()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				t := src.At(x, y)
				lum := 0.299*float64(t.V) + 0.587*float64(t.S) + 0.114*float64(t.H)
				dst.Pix[y*dst.Stride+x] = uint8(lum + 0.5)
			}
		}
	})

	return Gray{img: dst}
}
