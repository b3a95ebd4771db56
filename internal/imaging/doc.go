// Package imaging turns image files into the calibrated intensity buffers the
// neighborhood package iterates, and renders spot previews.
//
// Decoded images are cached by path in an ImageCache. A Plane holds one 2-D
// image as float64 intensities; a Stack groups equally sized planes into a Z
// series. Both implement neighborhood.Image[float64].
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Z: plane index within a Stack
//   - For regions, the minimum corner is inclusive and the maximum exclusive
//
// Coordinates are relative to the top-left pixel of the decoded image, so a
// sub-image with a non-zero Bounds().Min still starts at (0,0).
//
// # Intensity
//
// Grayscale images (8 or 16 bits) contribute their stored sample. Color
// images are reduced according to an IntensityMode: BT.601 luma, CIE L*
// lightness, or a single channel. An optional Gaussian blur can be applied
// before conversion.
//
// # Previews
//
// Crop and MaskOverlay return base64 PNGs of a region, clipped to the image.
// MaskOverlay tints the member pixels of a spot and outlines its bounding box.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Planes and Stacks are
// read-only after construction and can be shared between goroutines.
package imaging
