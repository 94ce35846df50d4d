package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/ovenstate/internal/imaging"
)

func blackRGB(t *testing.T, width, height int) imaging.RGB {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	buf, err := imaging.NewRGB(img)
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestAnnotate(t *testing.T) {
	src := blackRGB(t, 100, 100)
	circles := Circles{{X: 50, Y: 50, Radius: 20}}

	out, err := Annotate(src, circles, OutlineColor, OutlineThickness)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	// On the ring, in all four directions.
	for _, p := range [][2]int{{70, 50}, {30, 50}, {50, 70}, {50, 30}} {
		r, g, b := out.At(p[0], p[1])
		if r != 0 || g != 255 || b != 0 {
			t.Errorf("ring pixel %v: got (%d,%d,%d), want green", p, r, g, b)
		}
	}
	// Inside and outside the ring.
	for _, p := range [][2]int{{50, 50}, {60, 50}, {80, 50}, {0, 0}} {
		if r, g, b := out.At(p[0], p[1]); r != 0 || g != 0 || b != 0 {
			t.Errorf("pixel %v should be untouched: got (%d,%d,%d)", p, r, g, b)
		}
	}
	// The source is not modified.
	if _, g, _ := src.At(70, 50); g != 0 {
		t.Error("Annotate modified its input")
	}
}

func TestAnnotate_Clipped(t *testing.T) {
	src := blackRGB(t, 40, 40)
	circles := Circles{
		{X: 0, Y: 0, Radius: 15},
		{X: 500, Y: 500, Radius: 10},
		{X: 20, Y: 20, Radius: 0},
	}

	out, err := Annotate(src, circles, color.RGBA{255, 0, 0, 255}, 2)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if out.Width() != 40 || out.Height() != 40 {
		t.Errorf("dimensions changed: %dx%d", out.Width(), out.Height())
	}
	if r, _, _ := out.At(15, 0); r != 255 {
		t.Errorf("clipped ring pixel: got red %d, want 255", r)
	}
	if r, _, _ := out.At(20, 20); r != 0 {
		t.Error("zero radius circle should not be drawn")
	}
}
