package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxHue is the largest stored hue value. Hue is kept at half-degree
// resolution so the full circle fits in 0-179.
const MaxHue = 179

// ToHSV converts a device-color buffer to hue/saturation/value.
//
// Hue is stored as round(degrees / 2); a result of 180 (a red just below 360°)
// folds back to 0, so hue stays in [0, MaxHue]. Saturation and value are
// scaled from [0, 1] to [0, 255] and rounded. Gray pixels get hue 0 and
// saturation 0.
func ToHSV(src RGB) HSV {
	width, height := src.Width(), src.Height()
	dst := newHSV(width, height)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				r, g, b := src.At(x, y)
				dst.set(x, y, rgbToHSV(r, g, b))
			}
		}
	})

	return dst
}

// rgbToHSV converts one 8-bit RGB sample to the half-degree HSV convention.
func rgbToHSV(r, g, b uint8) HSVTriple {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, v := c.Hsv()

	hue := int(math.Round(h / 2))
	if hue > MaxHue {
		hue = 0
	}
	return HSVTriple{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}
