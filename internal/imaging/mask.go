package imaging

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// HueRange is an inclusive box in HSV space.
//
// A sample is inside when each of H, S and V lies within the matching
// Lower/Upper pair. Hue uses the half-degree convention (0-179).
type HueRange struct {
	Lower HSVTriple `json:"lower"`
	Upper HSVTriple `json:"upper"`
}

// Contains reports whether t lies inside the range on all three channels.
func (r HueRange) Contains(t HSVTriple) bool {
	return t.H >= r.Lower.H && t.H <= r.Upper.H &&
		t.S >= r.Lower.S && t.S <= r.Upper.S &&
		t.V >= r.Lower.V && t.V <= r.Upper.V
}

// Validate rejects ranges with a minimum above its maximum or a hue beyond
// MaxHue.
func (r HueRange) Validate() error {
	if r.Lower.H > r.Upper.H || r.Lower.S > r.Upper.S || r.Lower.V > r.Upper.V {
		return fmt.Errorf("inverted range %v-%v", r.Lower, r.Upper)
	}
	if r.Upper.H > MaxHue {
		return fmt.Errorf("hue %d exceeds %d", r.Upper.H, MaxHue)
	}
	return nil
}

// MaskRange keeps the pixels of src that fall inside r and blacks out the
// rest.
//
// Kept pixels retain all three HSV channels so the result can be summed with
// another mask by CombineSaturating.
func MaskRange(src HSV, r HueRange) HSV {
	width, height := src.Width(), src.Height()
	dst := newHSV(width, height)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				if t := src.At(x, y); r.Contains(t) {
					dst.set(x, y, t)
				}
			}
		}
	})

	return dst
}

// CombineSaturating adds a and b channel by channel, capping each sum at 255.
//
// Red straddles the hue wrap, so it is captured by two masks that are
// merged here. The operation is commutative. Inputs must have identical
// dimensions.
func CombineSaturating(a, b HSV) (HSV, error) {
	if a.Empty() || b.Empty() {
		return HSV{}, ErrEmptyImage
	}
	if err := checkSameSize(a.Width(), a.Height(), b.Width(), b.Height()); err != nil {
		return HSV{}, err
	}

	width, height := a.Width(), a.Height()
	dst := newHSV(width, height)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				ia := a.img.PixOffset(x, y)
				ib := b.img.PixOffset(x, y)
				for c := 0; c < 3; c++ {
					dst.img.Pix[ia+c] = addSaturating(a.img.Pix[ia+c], b.img.Pix[ib+c])
				}
			}
		}
	})

	return dst, nil
}

func addSaturating(x, y uint8) uint8 {
	sum := uint16(x) + uint16(y)
	if sum > 0xff {
		return 0xff
	}
	return uint8(sum)
}
