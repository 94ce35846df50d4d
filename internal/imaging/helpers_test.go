package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates a solid color test image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image whose pixel (x, y) has R=x, G=y, B=x+y.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x + y), 255})
		}
	}
	return img
}

func mustRGB(t *testing.T, img image.Image) RGB {
	t.Helper()
	buf, err := NewRGB(img)
	if err != nil {
		t.Fatalf("NewRGB failed: %v", err)
	}
	return buf
}

// hsvFrom builds an HSV buffer where fill returns the sample for each pixel.
func hsvFrom(width, height int, fill func(x, y int) HSVTriple) HSV {
	b := newHSV(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.set(x, y, fill(x, y))
		}
	}
	return b
}
