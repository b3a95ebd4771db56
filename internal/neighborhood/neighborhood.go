package neighborhood

import (
	"errors"
	"fmt"
	"iter"

	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// ErrDimensionMismatch is returned when the image cannot host the region,
// for example when its calibration covers fewer axes than it has dimensions.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Mode records which region a Neighborhood ended up using.
type Mode int

const (
	// ModeRadius iterates the ellipsoid given by the spot radius.
	ModeRadius Mode = iota
	// ModeRoi iterates the polygon ROI of a spot in a 2-D image.
	ModeRoi
	// ModeSinglePixel is the fallback for regions of at most one pixel.
	ModeSinglePixel
)

func (m Mode) String() string {
	switch m {
	case ModeRadius:
		return "radius"
	case ModeRoi:
		return "roi"
	case ModeSinglePixel:
		return "single-pixel"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Neighborhood is the set of pixels belonging to one spot in one image.
type Neighborhood[T any] struct {
	img    Image[T]
	region Region
	box    Box
	mode   Mode
}

// New selects the region for s in img and applies the single-pixel fallback.
func New[T any](s *spot.Spot, img Image[T]) (*Neighborhood[T], error) {
	n := img.NumDimensions()
	cal := img.Calibration()
	if n < 1 {
		return nil, fmt.Errorf("%w: image has %d dimensions", ErrDimensionMismatch, n)
	}
	if len(cal) < n {
		return nil, fmt.Errorf("%w: %d calibrated axes for %d dimensions", ErrDimensionMismatch, len(cal), n)
	}

	var (
		region Region
		mode   Mode
		err    error
	)
	if s.Roi() != nil && n == 2 {
		region, err = PolygonRegion(s, cal)
		mode = ModeRoi
	} else {
		region, err = EllipsoidRegion(s, cal, n)
		mode = ModeRadius
	}
	if err != nil {
		return nil, err
	}

	nb := &Neighborhood[T]{img: img, region: region, box: region.Bounds(), mode: mode}
	if nb.countUpTo(2) <= 1 {
		region, err = SinglePixelRegion(s, cal, n)
		if err != nil {
			return nil, err
		}
		nb = &Neighborhood[T]{img: img, region: region, box: region.Bounds(), mode: ModeSinglePixel}
	}
	return nb, nil
}

// FromRegion iterates an explicit region, without the single-pixel fallback.
func FromRegion[T any](img Image[T], region Region) *Neighborhood[T] {
	return &Neighborhood[T]{img: img, region: region, box: region.Bounds(), mode: modeOf(region)}
}

func modeOf(r Region) Mode {
	switch r.Kind() {
	case KindPolygon:
		return ModeRoi
	case KindEllipsoid:
		return ModeRadius
	default:
		return ModeSinglePixel
	}
}

// Mode returns the region selection outcome.
func (n *Neighborhood[T]) Mode() Mode {
	return n.mode
}

// Region returns the region descriptor.
func (n *Neighborhood[T]) Region() Region {
	return n.region
}

// Box returns the bounding box iterated by cursors.
func (n *Neighborhood[T]) Box() Box {
	return n.box
}

// Image returns the underlying image.
func (n *Neighborhood[T]) Image() Image[T] {
	return n.img
}

// NumDimensions is 2 for ROI neighborhoods and the image dimensionality otherwise.
func (n *Neighborhood[T]) NumDimensions() int {
	return n.box.NumDimensions()
}

// Min returns the bounding box lower bound along axis d.
func (n *Neighborhood[T]) Min(d int) int64 {
	return n.box.Min(d)
}

// Max returns the exclusive bounding box upper bound along axis d.
func (n *Neighborhood[T]) Max(d int) int64 {
	return n.box.Max(d)
}

// Cursor returns a fresh cursor.
func (n *Neighborhood[T]) Cursor() *Cursor[T] {
	return newCursor(n.img, n.region, n.box)
}

// Size counts the member pixels by draining a new cursor. It is not cached.
func (n *Neighborhood[T]) Size() int64 {
	return n.countUpTo(-1)
}

// FirstElement returns the value of the first member pixel.
func (n *Neighborhood[T]) FirstElement() (T, bool) {
	c := n.Cursor()
	if !c.Next() {
		var zero T
		return zero, false
	}
	return c.Get(), true
}

// Samples returns a lazy sequence over the member pixels. Each range over it
// starts a new cursor.
func (n *Neighborhood[T]) Samples() iter.Seq[Sample[T]] {
	return func(yield func(Sample[T]) bool) {
		c := n.Cursor()
		for c.Next() {
			if !yield(c.Sample()) {
				return
			}
		}
	}
}

// countUpTo counts members, stopping at limit when limit is positive.
func (n *Neighborhood[T]) countUpTo(limit int64) int64 {
	var count int64
	c := n.Cursor()
	for c.HasNext() {
		c.Fwd()
		count++
		if limit > 0 && count >= limit {
			break
		}
	}
	return count
}
