package spot

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedRoi is returned for polygons that cannot describe an area.
var ErrMalformedRoi = errors.New("malformed roi")

// Roi is a closed polygon contour around a spot. Vertices are offsets from
// the spot center in physical units; the last vertex connects to the first.
// Self-intersection is not checked.
type Roi struct {
	x []float64
	y []float64
}

// NewRoi builds a contour from parallel offset slices, which are copied.
func NewRoi(x, y []float64) (*Roi, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x offsets but %d y offsets", ErrMalformedRoi, len(x), len(y))
	}
	if len(x) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 vertices, got %d", ErrMalformedRoi, len(x))
	}
	return &Roi{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
	}, nil
}

// NumVertices returns the vertex count.
func (r *Roi) NumVertices() int {
	return len(r.x)
}

// Vertex returns the i-th offset.
func (r *Roi) Vertex(i int) (x, y float64) {
	return r.x[i], r.y[i]
}

// PolygonX returns the vertex X coordinates in pixel units for a spot
// centered at physical position center.
func (r *Roi) PolygonX(calibration, center float64) []float64 {
	return toPixels(r.x, calibration, center)
}

// PolygonY is PolygonX for the Y axis.
func (r *Roi) PolygonY(calibration, center float64) []float64 {
	return toPixels(r.y, calibration, center)
}

func toPixels(offsets []float64, calibration, center float64) []float64 {
	out := make([]float64, len(offsets))
	for i, o := range offsets {
		out[i] = (center + o) / calibration
	}
	return out
}

// Area returns the absolute enclosed area in physical units (shoelace
// formula; self-intersecting contours give the signed-area magnitude).
func (r *Roi) Area() float64 {
	var a float64
	for i, j := 0, len(r.x)-1; i < len(r.x); j, i = i, i+1 {
		a += r.x[j]*r.y[i] - r.x[i]*r.y[j]
	}
	return math.Abs(a) / 2
}
