// Package detection finds circles in an intensity image and draws them.
//
// # Circle Detection
//
// Detection uses the gradient variant of the Hough circle transform:
//
//  1. Edge Detection: Canny edges with Sobel gradients
//  2. Center Voting: each edge pixel votes along its gradient direction
//  3. Candidate Selection: accumulator peaks above a vote threshold, kept
//     only when far enough from a stronger peak
//  4. Radius Estimation: the best supported distance from each center to the
//     edge pixels
//
// Two implementations satisfy Detector. GradientDetector is pure Go and is
// the default. Building with the gocv tag switches NewDetector to
// OpenCVDetector, which calls OpenCV's HoughCircles:
//
//	go build -tags gocv ./...
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Circle centers are sub-pixel; Annotate rounds them before drawing.
package detection
