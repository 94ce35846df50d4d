package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// GaussianBlur smooths every channel of src with a ksize×ksize Gaussian of
// standard deviation sigma.
//
// Applied to the combined red mask it merges ragged fragments into round
// blobs the circle detector can see. The kernel is separable (one
// horizontal pass, one vertical pass) with weights exp(-d²/2σ²) normalized to
// sum to one. Pixels beyond the border replicate the nearest edge pixel.
func GaussianBlur(src HSV, ksize int, sigma float64) (HSV, error) {
	if src.Empty() {
		return HSV{}, ErrEmptyImage
	}
	if err := checkKernelSize(ksize); err != nil {
		return HSV{}, err
	}
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return HSV{}, fmt.Errorf("sigma must be positive, got %v", sigma)
	}
	if ksize == 1 {
		return HSV{img: copyRGBA(src.img)}, nil
	}

	k := gaussianKernel(ksize, sigma)
	// bild truncates each sum; a bias of one half rounds it instead.
	opts := &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true}

	horizontal := convolution.Convolve(src.img, k, opts)
	blurred := convolution.Convolve(horizontal, k.Transposed(), opts)

	return HSV{img: blurred}, nil
}

// gaussianKernel builds a normalized 1-D kernel of length ksize.
func gaussianKernel(ksize int, sigma float64) convolution.Matrix {
	k := convolution.NewKernel(ksize, 1)
	center := float64(ksize-1) / 2
	for i := 0; i < ksize; i++ {
		d := float64(i) - center
		k.Matrix[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
	}
	return k.Normalized()
}
