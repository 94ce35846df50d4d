package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle inside an image.
//
// (X1, Y1) is the inclusive top-left corner and (X2, Y2) the exclusive
// bottom-right corner.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns the region as a standard library rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Offset returns the top-left corner of the region.
func (r Region) Offset() image.Point {
	return image.Pt(r.X1, r.Y1)
}

// Crop extracts region r from src.
//
// The region must lie inside the buffer and have positive width and height.
// The result has its origin at (0, 0); add r.Offset() to map coordinates
// back onto src.
func Crop(src RGB, r Region) (RGB, error) {
	if src.Empty() {
		return RGB{}, ErrEmptyImage
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return RGB{}, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > src.Width() || r.Y2 > src.Height() {
		return RGB{}, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, src.Width(), src.Height())
	}

	cropped := imaging.Crop(src.img, r.Rect())
	return NewRGB(cropped)
}
