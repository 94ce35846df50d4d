package detection

import (
	"fmt"
	"math"

	"github.com/ironsheep/ovenstate/internal/imaging"
)

// Circle is a detected circle candidate.
//
// Coordinates are in the pixel space of the intensity image the circle was
// found in; (0, 0) is the center of the top-left pixel.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Translate returns the circle moved by (dx, dy).
func (c Circle) Translate(dx, dy float64) Circle {
	return Circle{X: c.X + dx, Y: c.Y + dy, Radius: c.Radius}
}

// Rounded returns the center and radius rounded to the nearest pixel.
func (c Circle) Rounded() (x, y, r int) {
	return int(math.Round(c.X)), int(math.Round(c.Y)), int(math.Round(c.Radius))
}

// Circles is the outcome of one detection run.
//
// A nil value means the transform produced no candidate at all. A non-nil
// empty value means candidates were found but none passed verification.
// Callers that only care whether a circle exists should use Empty, which
// treats both the same. Order carries no meaning.
type Circles []Circle

// Empty reports whether no circle was detected.
func (c Circles) Empty() bool { return len(c) == 0 }

// None reports whether the transform produced no candidate at all.
func (c Circles) None() bool { return c == nil }

// Method identifies the circle transform variant.
type Method string

// HoughGradient votes along each edge pixel's gradient direction. It is the
// only supported method.
const HoughGradient Method = "gradient"

// HoughParams configures a circle detection run.
type HoughParams struct {
	// Method selects the transform variant.
	Method Method `json:"method"`

	// DP is the ratio of image resolution to accumulator resolution.
	// 1 uses one accumulator cell per pixel; 1.2 makes cells 1.2 px wide.
	DP float64 `json:"dp"`

	// MinDist is the minimum distance between the centers of two reported
	// circles. Weaker candidates closer than this are dropped.
	MinDist float64 `json:"min_dist"`

	// CannyHigh is the upper edge threshold; the lower one is half of it.
	CannyHigh float64 `json:"canny_high"`

	// AccumThreshold is the number of votes a center needs to become a
	// candidate. Lower values find more (and more false) circles.
	AccumThreshold int `json:"accum_threshold"`

	// MinRadius and MaxRadius bound the radii searched. MaxRadius 0 means
	// the larger image dimension.
	MinRadius int `json:"min_radius"`
	MaxRadius int `json:"max_radius"`
}

// DefaultHoughParams returns the parameters used for indicator detection.
func DefaultHoughParams() HoughParams {
	return HoughParams{
		Method:         HoughGradient,
		DP:             1.2,
		MinDist:        100,
		CannyHigh:      100,
		AccumThreshold: 30,
		MinRadius:      0,
		MaxRadius:      0,
	}
}

// Validate checks the parameters for values the transform cannot use.
func (p HoughParams) Validate() error {
	switch {
	case p.Method != HoughGradient:
		return fmt.Errorf("unsupported detection method %q", p.Method)
	case !(p.DP >= 1) || math.IsInf(p.DP, 0):
		return fmt.Errorf("dp must be >= 1, got %v", p.DP)
	case !(p.MinDist > 0) || math.IsInf(p.MinDist, 0):
		return fmt.Errorf("min distance must be positive, got %v", p.MinDist)
	case !(p.CannyHigh > 0) || math.IsInf(p.CannyHigh, 0):
		return fmt.Errorf("canny threshold must be positive, got %v", p.CannyHigh)
	case p.AccumThreshold <= 0:
		return fmt.Errorf("accumulator threshold must be positive, got %d", p.AccumThreshold)
	case p.MinRadius < 0 || p.MaxRadius < 0:
		return fmt.Errorf("radius bounds must not be negative, got %d-%d", p.MinRadius, p.MaxRadius)
	case p.MaxRadius > 0 && p.MaxRadius < p.MinRadius:
		return fmt.Errorf("max radius %d is below min radius %d", p.MaxRadius, p.MinRadius)
	}
	return nil
}

// Detector finds circles in an intensity image.
type Detector interface {
	DetectCircles(src imaging.Gray, p HoughParams) (Circles, error)
}
