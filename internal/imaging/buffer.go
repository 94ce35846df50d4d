package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
)

// ErrEmptyImage is returned when a buffer would have zero width or height.
var ErrEmptyImage = errors.New("image has zero width or height")

// ErrDimensionMismatch is returned when two buffers combined pixel by pixel
// do not have identical dimensions.
var ErrDimensionMismatch = errors.New("image dimensions do not match")

// RGB is a device-color pixel buffer with 8-bit red, green and blue channels.
//
// The three buffer types (RGB, HSV, Gray) are distinct types so a stage
// expecting hue/saturation/value data cannot be handed device color by mistake.
// All buffers have their origin at (0, 0). The zero value is an empty buffer.
type RGB struct {
	img *image.RGBA
}

// NewRGB copies img into a device-color buffer with its origin moved to (0, 0).
//
// Alpha is discarded: every pixel of the buffer is opaque. For images with
// transparency the premultiplied color values are kept, so fully
// transparent pixels read as black.
func NewRGB(img image.Image) (RGB, error) {
	if img == nil {
		return RGB{}, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return RGB{}, ErrEmptyImage
	}

	rgba := clone.AsRGBA(img)
	// Pix[0] of the clone already corresponds to b.Min.
	rgba.Rect = image.Rect(0, 0, b.Dx(), b.Dy())
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 0xff
	}
	return RGB{img: rgba}, nil
}

// Width returns the buffer width in pixels.
func (b RGB) Width() int { return dx(b.img) }

// Height returns the buffer height in pixels.
func (b RGB) Height() int { return dy(b.img) }

// Empty reports whether the buffer holds no pixels.
func (b RGB) Empty() bool { return b.img == nil || b.Width() == 0 || b.Height() == 0 }

// At returns the red, green and blue components at (x, y).
func (b RGB) At(x, y int) (r, g, bl uint8) {
	i := b.img.PixOffset(x, y)
	return b.img.Pix[i], b.img.Pix[i+1], b.img.Pix[i+2]
}

// Image returns a copy of the buffer as a standard library image.
func (b RGB) Image() *image.RGBA {
	return copyRGBA(b.img)
}

// HSVTriple is one hue/saturation/value sample.
//
// H uses the half-degree convention: 0-179 maps onto 0-358 degrees so the
// hue fits in one byte. S and V are 0-255.
type HSVTriple struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// HSV is a hue/saturation/value pixel buffer produced by ToHSV.
//
// Masks derived from it (MaskRange, CombineSaturating, GaussianBlur) stay
// HSV-typed: they hold selected HSV samples, not device color.
type HSV struct {
	// img stores H, S, V in the R, G, B slots; alpha is always opaque.
	img *image.RGBA
}

func newHSV(width, height int) HSV {
	return HSV{img: newOpaqueRGBA(width, height)}
}

// Width returns the buffer width in pixels.
func (b HSV) Width() int { return dx(b.img) }

// Height returns the buffer height in pixels.
func (b HSV) Height() int { return dy(b.img) }

// Empty reports whether the buffer holds no pixels.
func (b HSV) Empty() bool { return b.img == nil || b.Width() == 0 || b.Height() == 0 }

// At returns the HSV sample at (x, y).
func (b HSV) At(x, y int) HSVTriple {
	i := b.img.PixOffset(x, y)
	return HSVTriple{H: b.img.Pix[i], S: b.img.Pix[i+1], V: b.img.Pix[i+2]}
}

func (b HSV) set(x, y int, t HSVTriple) {
	i := b.img.PixOffset(x, y)
	b.img.Pix[i], b.img.Pix[i+1], b.img.Pix[i+2] = t.H, t.S, t.V
}

// Image renders the buffer for inspection.
//
// Channels are laid out the way an HSV array reads when written out as a
// blue/green/red image: value shows as red, saturation as green and hue as
// blue.
func (b HSV) Image() *image.RGBA {
	out := newOpaqueRGBA(b.Width(), b.Height())
	for i := 0; i+3 < len(b.img.Pix); i += 4 {
		out.Pix[i] = b.img.Pix[i+2]
		out.Pix[i+1] = b.img.Pix[i+1]
		out.Pix[i+2] = b.img.Pix[i]
	}
	return out
}

// Gray is a single-channel 8-bit intensity buffer.
type Gray struct {
	img *image.Gray
}

// NewGray converts img to intensity using the standard library gray model
// and moves its origin to (0, 0).
func NewGray(img image.Image) (Gray, error) {
	if img == nil {
		return Gray{}, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Gray{}, ErrEmptyImage
	}
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.SetGray(x, y, color.GrayModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.Gray))
		}
	}
	return Gray{img: g}, nil
}

// Width returns the buffer width in pixels.
func (b Gray) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dx()
}

// Height returns the buffer height in pixels.
func (b Gray) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dy()
}

// Empty reports whether the buffer holds no pixels.
func (b Gray) Empty() bool { return b.img == nil || b.Width() == 0 || b.Height() == 0 }

// At returns the intensity at (x, y). Coordinates are not bounds checked.
func (b Gray) At(x, y int) uint8 {
	return b.img.Pix[y*b.img.Stride+x]
}

// Image returns a copy of the buffer as a standard library image.
func (b Gray) Image() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, b.Width(), b.Height()))
	if b.img != nil {
		copy(out.Pix, b.img.Pix)
	}
	return out
}

func newOpaqueRGBA(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func copyRGBA(src *image.RGBA) *image.RGBA {
	if src == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	out := image.NewRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

func dx(img *image.RGBA) int {
	if img == nil {
		return 0
	}
	return img.Rect.Dx()
}

func dy(img *image.RGBA) int {
	if img == nil {
		return 0
	}
	return img.Rect.Dy()
}

func checkSameSize(aw, ah, bw, bh int) error {
	if aw != bw || ah != bh {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, aw, ah, bw, bh)
	}
	return nil
}
