package detection

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/ironsheep/ovenstate/internal/imaging"
)

// OutlineColor is the stroke color used for annotated circles.
var OutlineColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// OutlineThickness is the stroke width in pixels used for annotated circles.
const OutlineThickness = 4

// bezierCircle is the control point distance for a quarter circle drawn as
// one cubic Bézier segment, as a fraction of the radius.
const bezierCircle = 0.5522847498

// Annotate returns a copy of src with every circle stroked as a ring.
//
// Centers and radii are rounded to whole pixels before drawing. The ring is
// centered on the circle and thickness pixels wide; parts falling outside
// the image are clipped. src is not modified.
func Annotate(src imaging.RGB, circles Circles, c color.Color, thickness int) (imaging.RGB, error) {
	dst := src.Image()
	if thickness < 1 {
		thickness = 1
	}
	paint := image.NewUniform(c)

	for _, circle := range circles {
		x, y, r := circle.Rounded()
		if r <= 0 {
			continue
		}

		half := float32(thickness) / 2
		outer := float32(r) + half
		inner := float32(r) - half

		pad := int(outer) + 2
		box := image.Rect(x-pad, y-pad, x+pad+1, y+pad+1)
		if !box.Overlaps(dst.Bounds()) {
			continue
		}

		// Coordinates are relative to box; +0.5 puts the center mid-pixel.
		cx := float32(x-box.Min.X) + 0.5
		cy := float32(y-box.Min.Y) + 0.5

		z := vector.NewRasterizer(box.Dx(), box.Dy())
		addCirclePath(z, cx, cy, outer, 1)
		if inner > 0 {
			// Opposite winding cancels the interior, leaving a ring.
			addCirclePath(z, cx, cy, inner, -1)
		}

		mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
		z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
		draw.DrawMask(dst, box, paint, image.Point{}, mask, image.Point{}, draw.Over)
	}

	return imaging.NewRGB(dst)
}

// addCirclePath appends a closed circle made of four cubic Béziers.
// dir 1 winds clockwise on screen, -1 counter-clockwise.
func addCirclePath(z *vector.Rasterizer, cx, cy, r float32, dir float32) {
	k := r * bezierCircle
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+dir*k, cx+k, cy+dir*r, cx, cy+dir*r)
	z.CubeTo(cx-k, cy+dir*r, cx-r, cy+dir*k, cx-r, cy)
	z.CubeTo(cx-r, cy-dir*k, cx-k, cy-dir*r, cx, cy-dir*r)
	z.CubeTo(cx+k, cy-dir*r, cx+r, cy-dir*k, cx+r, cy)
	z.ClosePath()
}
