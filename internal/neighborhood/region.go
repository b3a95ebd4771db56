package neighborhood

import (
	"fmt"
	"math"

	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// Kind tags the shape held by a Region.
type Kind int

const (
	// KindBox admits every pixel of its bounding box.
	KindBox Kind = iota
	// KindPolygon is a 2-D contour tested with the even-odd rule.
	KindPolygon
	// KindEllipsoid is a circle, ellipse or ellipsoid around a center pixel.
	KindEllipsoid
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindPolygon:
		return "polygon"
	case KindEllipsoid:
		return "ellipsoid"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Region is the shape assigned to a spot, in pixel coordinates. It is a
// tagged variant: which fields are meaningful depends on Kind.
type Region struct {
	kind Kind

	// polygon vertices, pixel units
	xs, ys []float64

	// ellipsoid center pixel and per-axis semi-axis in pixels
	center []int64
	span   []int64

	// box region bounds
	box Box
}

// PolygonRegion maps the spot ROI through the first two calibration axes.
// The spot must carry a ROI.
func PolygonRegion(s *spot.Spot, cal spot.Calibration) (Region, error) {
	roi := s.Roi()
	if roi == nil {
		return Region{}, fmt.Errorf("spot %d has no roi", s.ID())
	}
	if len(cal) < 2 {
		return Region{}, fmt.Errorf("%w: polygon needs 2 calibrated axes, got %d", ErrDimensionMismatch, len(cal))
	}
	cx, err := s.Position(0)
	if err != nil {
		return Region{}, err
	}
	cy, err := s.Position(1)
	if err != nil {
		return Region{}, err
	}
	return Region{
		kind: KindPolygon,
		xs:   roi.PolygonX(cal[0], cx),
		ys:   roi.PolygonY(cal[1], cy),
	}, nil
}

// EllipsoidRegion builds the radius-based shape over the first n axes.
func EllipsoidRegion(s *spot.Spot, cal spot.Calibration, n int) (Region, error) {
	if len(cal) < n {
		return Region{}, fmt.Errorf("%w: %d calibrated axes for %d dimensions", ErrDimensionMismatch, len(cal), n)
	}
	radius, err := s.Feature(spot.Radius)
	if err != nil {
		return Region{}, err
	}
	center := make([]int64, n)
	span := make([]int64, n)
	for d := 0; d < n; d++ {
		if center[d], err = s.PixelCenter(d, cal); err != nil {
			return Region{}, err
		}
		span[d] = spot.Round(cal.ToPixel(d, radius))
		if span[d] < 0 {
			span[d] = 0
		}
	}
	return Region{kind: KindEllipsoid, center: center, span: span}, nil
}

// SinglePixelRegion is the one-pixel box at the rounded spot position.
func SinglePixelRegion(s *spot.Spot, cal spot.Calibration, n int) (Region, error) {
	if len(cal) < n {
		return Region{}, fmt.Errorf("%w: %d calibrated axes for %d dimensions", ErrDimensionMismatch, len(cal), n)
	}
	center := make([]int64, n)
	for d := range center {
		c, err := s.PixelCenter(d, cal)
		if err != nil {
			return Region{}, err
		}
		center[d] = c
	}
	return BoxRegion(UnitBox(center)), nil
}

// BoxRegion admits every pixel of b.
func BoxRegion(b Box) Region {
	return Region{kind: KindBox, box: b}
}

// Kind returns the region tag.
func (r Region) Kind() Kind {
	return r.kind
}

// NumDimensions returns the number of axes iterated for this region.
func (r Region) NumDimensions() int {
	switch r.kind {
	case KindPolygon:
		return 2
	case KindEllipsoid:
		return len(r.center)
	default:
		return r.box.NumDimensions()
	}
}

// Bounds returns the smallest pixel box enclosing the region.
func (r Region) Bounds() Box {
	switch r.kind {
	case KindPolygon:
		minX, maxX := extent(r.xs)
		minY, maxY := extent(r.ys)
		return NewBox(
			[]int64{int64(math.Floor(minX)), int64(math.Floor(minY))},
			[]int64{int64(math.Ceil(maxX)), int64(math.Ceil(maxY))},
		)
	case KindEllipsoid:
		lo := make([]int64, len(r.center))
		hi := make([]int64, len(r.center))
		for d, c := range r.center {
			lo[d] = c - r.span[d]
			hi[d] = c + r.span[d] + 1
		}
		return NewBox(lo, hi)
	default:
		return r.box
	}
}

// Contains reports whether the pixel centered at pos belongs to the region.
// pos must have NumDimensions entries.
func (r Region) Contains(pos []int64) bool {
	switch r.kind {
	case KindPolygon:
		return insidePolygon(r.xs, r.ys, float64(pos[0]), float64(pos[1]))
	case KindEllipsoid:
		return insideEllipsoid(r.center, r.span, pos)
	default:
		return r.box.Contains(pos)
	}
}

// insidePolygon is the even-odd crossing test. Points exactly on an edge or
// vertex get whatever the crossing formula gives them.
func insidePolygon(xs, ys []float64, x, y float64) bool {
	inside := false
	for i, j := 0, len(xs)-1; i < len(xs); j, i = i, i+1 {
		xi, yi := xs[i], ys[i]
		xj, yj := xs[j], ys[j]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func insideEllipsoid(center, span, pos []int64) bool {
	var sum float64
	for d, p := range pos {
		o := p - center[d]
		if span[d] == 0 {
			if o != 0 {
				return false
			}
			continue
		}
		q := float64(o) / float64(span[d])
		sum += q * q
		if sum > 1 {
			return false
		}
	}
	return true
}

func extent(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
