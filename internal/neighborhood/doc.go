// Package neighborhood enumerates the pixels that belong to a spot.
//
// A Neighborhood is built once per spot/image pair. It picks a Region:
//
//   - Polygon: the spot carries a ROI and the image is 2-D. Membership is the
//     even-odd ray-casting test against the contour mapped to pixel units.
//   - Ellipsoid: every other case. The spot RADIUS is converted to a per-axis
//     pixel span and a pixel is a member when its normalized squared offset
//     from the spot center is at most 1.
//
// If the chosen region holds fewer than two pixels it is replaced by a Box
// region covering the single pixel at the rounded spot position, on every
// image axis. Every spot therefore yields at least one sample.
//
// # Iteration
//
// Pixels are visited in raster order over the region's bounding box, axis 0
// varying fastest. A Cursor buffers the next member so that HasNext has no
// visible side effects; Reset restarts the scan without recomputing the
// region. Cursors over the same Neighborhood are independent.
//
//	nb, err := neighborhood.New(s, img)
//	if err != nil {
//	    return err
//	}
//	for sample := range nb.Samples() {
//	    use(sample.Position, sample.Value)
//	}
//
// # Bounds
//
// Min and Max report the bounding box, not the extent of the member pixels.
// Max is exclusive. Nothing here checks that the box lies inside the image;
// reads outside the buffer are answered by the Image implementation.
//
// # Thread Safety
//
// A Neighborhood is immutable after New and may be shared. A Cursor is not
// safe for concurrent use; give each goroutine its own via Cursor or Copy.
// The underlying image must support concurrent readers.
package neighborhood
