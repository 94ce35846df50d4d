package detection

import (
	"image"
	"math"
	"testing"

	"github.com/ironsheep/ovenstate/internal/imaging"
)

type disc struct {
	cx, cy, r float64
}

// createDiscImage draws bright discs with a soft, anti-aliased rim on a
// black background, the way a blurred indicator reads after masking.
func createDiscImage(width, height int, discs ...disc) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := 0.0
			for _, d := range discs {
				dist := math.Hypot(float64(x)-d.cx, float64(y)-d.cy)
				v = math.Max(v, 255/(1+math.Exp(dist-d.r)))
			}
			img.Pix[y*img.Stride+x] = uint8(v + 0.5)
		}
	}
	return img
}

func mustGray(t *testing.T, img image.Image) imaging.Gray {
	t.Helper()
	g, err := imaging.NewGray(img)
	if err != nil {
		t.Fatalf("NewGray failed: %v", err)
	}
	return g
}
