package imaging

import (
	"errors"
	"math/rand"
	"testing"
)

var highRed = HueRange{
	Lower: HSVTriple{H: 160, S: 100, V: 100},
	Upper: HSVTriple{H: 179, S: 255, V: 255},
}

func TestHueRange_Contains(t *testing.T) {
	tests := []struct {
		name string
		in   HSVTriple
		want bool
	}{
		{"lower corner", HSVTriple{160, 100, 100}, true},
		{"upper corner", HSVTriple{179, 255, 255}, true},
		{"inside", HSVTriple{170, 200, 150}, true},
		{"hue below", HSVTriple{159, 200, 200}, false},
		{"saturation below", HSVTriple{170, 99, 200}, false},
		{"value below", HSVTriple{170, 200, 99}, false},
		{"unsaturated", HSVTriple{170, 0, 255}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := highRed.Contains(tt.in); got != tt.want {
				t.Errorf("Contains(%+v): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHueRange_Validate(t *testing.T) {
	if err := highRed.Validate(); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}

	inverted := HueRange{Lower: HSVTriple{10, 0, 0}, Upper: HSVTriple{5, 255, 255}}
	if err := inverted.Validate(); err == nil {
		t.Error("inverted hue range accepted")
	}

	tooHigh := HueRange{Lower: HSVTriple{170, 0, 0}, Upper: HSVTriple{200, 255, 255}}
	if err := tooHigh.Validate(); err == nil {
		t.Error("hue above 179 accepted")
	}
}

func TestMaskRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	src := hsvFrom(40, 30, func(x, y int) HSVTriple {
		return HSVTriple{H: uint8(rng.Intn(180)), S: uint8(rng.Intn(256)), V: uint8(rng.Intn(256))}
	})

	mask := MaskRange(src, highRed)

	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			in, out := src.At(x, y), mask.At(x, y)
			if highRed.Contains(in) {
				if out != in {
					t.Fatalf("(%d,%d): in-range pixel %+v became %+v", x, y, in, out)
				}
			} else if out != (HSVTriple{}) {
				t.Fatalf("(%d,%d): out-of-range pixel %+v kept as %+v", x, y, in, out)
			}
		}
	}
}

func TestCombineSaturating(t *testing.T) {
	a := hsvFrom(3, 1, func(x, y int) HSVTriple {
		return []HSVTriple{{0, 0, 0}, {100, 200, 50}, {179, 255, 255}}[x]
	})
	b := hsvFrom(3, 1, func(x, y int) HSVTriple {
		return []HSVTriple{{5, 6, 7}, {100, 100, 50}, {170, 200, 100}}[x]
	})

	got, err := CombineSaturating(a, b)
	if err != nil {
		t.Fatalf("CombineSaturating failed: %v", err)
	}

	want := []HSVTriple{{5, 6, 7}, {200, 255, 100}, {255, 255, 255}}
	for x, w := range want {
		if g := got.At(x, 0); g != w {
			t.Errorf("pixel %d: got %+v, want %+v", x, g, w)
		}
	}
}

func TestCombineSaturating_Commutative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := func(x, y int) HSVTriple {
		return HSVTriple{H: uint8(rng.Intn(256)), S: uint8(rng.Intn(256)), V: uint8(rng.Intn(256))}
	}
	a := hsvFrom(25, 25, random)
	b := hsvFrom(25, 25, random)

	ab, err := CombineSaturating(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := CombineSaturating(b, a)
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < 25; y++ {
		for x := 0; x < 25; x++ {
			if ab.At(x, y) != ba.At(x, y) {
				t.Fatalf("(%d,%d): %+v != %+v", x, y, ab.At(x, y), ba.At(x, y))
			}
		}
	}
}

func TestCombineSaturating_DimensionMismatch(t *testing.T) {
	a := newHSV(10, 10)
	b := newHSV(10, 11)

	if _, err := CombineSaturating(a, b); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
	if _, err := CombineSaturating(HSV{}, b); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("got %v, want ErrEmptyImage", err)
	}
}
