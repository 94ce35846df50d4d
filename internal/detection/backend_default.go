//go:build !gocv

package detection

// NewDetector returns the circle detector compiled into this binary.
//
// Without the gocv build tag this is the pure Go GradientDetector.
func NewDetector() Detector {
	return GradientDetector{}
}

// Backend names the detector implementation in use.
const Backend = "hough-gradient (pure Go)"
