// Package imaging provides the pixel buffers and per-pixel operations of the
// indicator detection pipeline.
//
// Three buffer types keep color spaces apart:
//   - RGB: device color as decoded from the input file
//   - HSV: hue/saturation/value, hue at half-degree resolution (0-179)
//   - Gray: one intensity channel, the input of circle detection
//
// Every operation returns a new buffer and leaves its input untouched.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner, X increasing rightward and Y increasing downward. For
// regions, (x1,y1) is inclusive (top-left) and (x2,y2) is exclusive
// (bottom-right).
//
// # Border Handling
//
// Neighborhood operations (MedianBlur, GaussianBlur) replicate the nearest
// edge pixel for samples outside the image.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Buffers are immutable once
// returned, so operations can run concurrently on the same input. Row loops
// are split across goroutines with bild's parallel package.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Empty buffers (ErrEmptyImage)
//   - Buffers of different sizes combined pixel by pixel (ErrDimensionMismatch)
//   - Even or non-positive kernel sizes
//   - Regions outside the image
//   - Unreadable or undecodable files (*LoadError)
package imaging
