package detection

import (
	"math"
	"sort"

	"github.com/ironsheep/ovenstate/internal/imaging"
)

const (
	// minRadiusSupport is the number of edge pixels that must sit on the
	// chosen radius for a center to be reported.
	minRadiusSupport = 30

	// radiusBinWidth is the width in pixels of the window of edge distances
	// considered to lie on one circle.
	radiusBinWidth = 2.0
)

// GradientDetector is the pure Go circular Hough transform.
type GradientDetector struct{}

// DetectCircles finds circles in src using the gradient Hough transform.
//
// # Algorithm (Hough Gradient)
//
//  1. Edge Detection: Canny with thresholds CannyHigh/2 and CannyHigh
//  2. Accumulator Voting: each edge pixel walks along its gradient direction,
//     both ways, casting one vote per radius step from MinRadius to MaxRadius
//     into an accumulator whose cells are DP pixels wide
//  3. Center Candidates: cells with more than AccumThreshold votes that are
//     local maxima, strongest first
//  4. Separation: candidates within MinDist of an accepted circle are skipped
//  5. Radius Estimation: distances from the candidate to every edge pixel are
//     sorted; the 2 px window with the best support-to-radius ratio wins if it
//     holds at least 30 edge pixels
//
// A nil result means no accumulator cell reached the threshold; a non-nil
// empty result means candidates existed but none had radius support.
//
// # Performance
//
// Voting is O(edges × radius range); verification is O(candidates × edges).
// Restricting MaxRadius is the most effective way to speed it up.
func (GradientDetector) DetectCircles(src imaging.Gray, p HoughParams) (Circles, error) {
	if src.Empty() {
		return nil, imaging.ErrEmptyImage
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	width, height := src.Width(), src.Height()
	edges := canny(src, p.CannyHigh/2, p.CannyHigh)

	minR := p.MinRadius
	if minR < 1 {
		minR = 1
	}
	maxR := p.MaxRadius
	if maxR <= 0 {
		maxR = max(width, height)
	}

	idp := 1 / p.DP
	acols := int(math.Ceil(float64(width) * idp))
	arows := int(math.Ceil(float64(height) * idp))
	// One cell of padding on every side keeps neighbor lookups in range.
	stride := acols + 2
	accum := make([]int, stride*(arows+2))

	points := make([][2]int, 0, 256)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !edges.edges[i] {
				continue
			}
			vx, vy := float64(edges.dx[i]), float64(edges.dy[i])
			mag := math.Hypot(vx, vy)
			if mag == 0 {
				continue
			}
			points = append(points, [2]int{x, y})

			sx, sy := vx/mag*idp, vy/mag*idp
			x0, y0 := (float64(x)+0.5)*idp, (float64(y)+0.5)*idp

			for k := 0; k < 2; k++ {
				fx := x0 + float64(minR)*sx
				fy := y0 + float64(minR)*sy
				for r := minR; r <= maxR; r++ {
					ax, ay := int(math.Floor(fx)), int(math.Floor(fy))
					if ax < 0 || ay < 0 || ax >= acols || ay >= arows {
						break
					}
					accum[(ay+1)*stride+ax+1]++
					fx += sx
					fy += sy
				}
				sx, sy = -sx, -sy
			}
		}
	}

	centers := findCenters(accum, stride, acols, arows, p.AccumThreshold)
	if len(centers) == 0 {
		return nil, nil
	}

	minDist2 := p.MinDist * p.MinDist
	circles := make(Circles, 0)
	dists := make([]float64, 0, len(points))

	for _, c := range centers {
		ax, ay := c%stride-1, c/stride-1
		cx := (float64(ax)+0.5)*p.DP - 0.5
		cy := (float64(ay)+0.5)*p.DP - 0.5

		tooClose := false
		for _, prev := range circles {
			ddx, ddy := prev.X-cx, prev.Y-cy
			if ddx*ddx+ddy*ddy < minDist2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		dists = dists[:0]
		for _, pt := range points {
			d := math.Hypot(float64(pt[0])-cx, float64(pt[1])-cy)
			if d >= float64(minR) && d <= float64(maxR) {
				dists = append(dists, d)
			}
		}

		r, ok := estimateRadius(dists)
		if !ok {
			continue
		}
		circles = append(circles, Circle{X: cx, Y: cy, Radius: r})
	}

	return circles, nil
}

// findCenters returns accumulator indices of local maxima above threshold,
// sorted by vote count descending and then by position.
func findCenters(accum []int, stride, acols, arows, threshold int) []int {
	centers := make([]int, 0)
	for y := 1; y <= arows; y++ {
		for x := 1; x <= acols; x++ {
			i := y*stride + x
			v := accum[i]
			if v > threshold &&
				v > accum[i-1] && v >= accum[i+1] &&
				v > accum[i-stride] && v >= accum[i+stride] {
				centers = append(centers, i)
			}
		}
	}

	sort.SliceStable(centers, func(a, b int) bool {
		return accum[centers[a]] > accum[centers[b]]
	})
	return centers
}

// estimateRadius picks the most plausible radius from edge distances.
//
// dists is sorted in place. A window of radiusBinWidth slides over it and
// the window maximizing count/radius is chosen, so a full small circle beats
// a partial arc of a large one. Windows with fewer than minRadiusSupport
// points are ignored.
func estimateRadius(dists []float64) (float64, bool) {
	sort.Float64s(dists)

	bestScore := 0.0
	bestRadius := 0.0
	found := false

	j := 0
	for i := range dists {
		if j < i {
			j = i
		}
		for j+1 < len(dists) && dists[j+1]-dists[i] <= radiusBinWidth {
			j++
		}
		count := j - i + 1
		if count < minRadiusSupport {
			continue
		}
		r := dists[(i+j)/2]
		if r <= 0 {
			continue
		}
		if score := float64(count) / r; score > bestScore {
			bestScore = score
			bestRadius = r
			found = true
		}
	}

	return bestRadius, found
}
