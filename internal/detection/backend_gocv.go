//go:build gocv

package detection

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ironsheep/ovenstate/internal/imaging"
)

// NewDetector returns the circle detector compiled into this binary.
//
// With the gocv build tag the transform is delegated to OpenCV.
func NewDetector() Detector {
	return OpenCVDetector{}
}

// Backend names the detector implementation in use.
const Backend = "hough-gradient (OpenCV)"

// OpenCVDetector runs OpenCV's HoughCircles through gocv.
type OpenCVDetector struct{}

// DetectCircles implements Detector.
//
// An empty OpenCV result maps to a nil Circles, matching the "no candidate"
// meaning of GradientDetector.
func (OpenCVDetector) DetectCircles(src imaging.Gray, p HoughParams) (Circles, error) {
	if src.Empty() {
		return nil, imaging.ErrEmptyImage
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageGrayToMatGray(src.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to mat: %w", err)
	}
	defer mat.Close()

	result := gocv.NewMat()
	defer result.Close()

	gocv.HoughCirclesWithParams(mat, &result, gocv.HoughGradient, p.DP, p.MinDist,
		p.CannyHigh, float64(p.AccumThreshold), p.MinRadius, p.MaxRadius)

	if result.Empty() || result.Cols() == 0 {
		return nil, nil
	}

	circles := make(Circles, 0, result.Cols())
	for i := 0; i < result.Cols(); i++ {
		circles = append(circles, Circle{
			X:      float64(result.GetFloatAt(0, i*3)),
			Y:      float64(result.GetFloatAt(0, i*3+1)),
			Radius: float64(result.GetFloatAt(0, i*3+2)),
		})
	}
	return circles, nil
}
