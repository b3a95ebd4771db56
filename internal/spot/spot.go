package spot

import (
	"errors"
	"fmt"
	"math"
)

// Feature names understood by the geometry code.
const (
	PositionX = "POSITION_X"
	PositionY = "POSITION_Y"
	PositionZ = "POSITION_Z"
	Radius    = "RADIUS"
	Quality   = "QUALITY"
)

// PositionFeatures maps a spatial axis index to its position feature name.
var PositionFeatures = [...]string{PositionX, PositionY, PositionZ}

// ErrMissingFeature is returned when a spot lacks a feature the geometry needs.
var ErrMissingFeature = errors.New("missing spot feature")

// Spot is a detected object: an immutable ID, a feature map that carries at
// least one position entry per spatial axis, and an optional polygon ROI.
type Spot struct {
	id       int
	features map[string]float64
	roi      *Roi
}

// New creates a spot. The feature map is copied; roi may be nil.
func New(id int, features map[string]float64, roi *Roi) *Spot {
	f := make(map[string]float64, len(features))
	for k, v := range features {
		f[k] = v
	}
	return &Spot{id: id, features: f, roi: roi}
}

// ID returns the spot identifier.
func (s *Spot) ID() int {
	return s.id
}

// Roi returns the polygon attached at detection time, or nil.
func (s *Spot) Roi() *Roi {
	return s.roi
}

// HasFeature reports whether the named feature is present.
func (s *Spot) HasFeature(name string) bool {
	_, ok := s.features[name]
	return ok
}

// Feature returns the named feature value.
func (s *Spot) Feature(name string) (float64, error) {
	v, ok := s.features[name]
	if !ok {
		return 0, fmt.Errorf("spot %d: %s: %w", s.id, name, ErrMissingFeature)
	}
	return v, nil
}

// Features returns a copy of the feature map.
func (s *Spot) Features() map[string]float64 {
	f := make(map[string]float64, len(s.features))
	for k, v := range s.features {
		f[k] = v
	}
	return f
}

// Position returns the physical position along axis d.
func (s *Spot) Position(d int) (float64, error) {
	if d < 0 || d >= len(PositionFeatures) {
		return 0, fmt.Errorf("spot %d: no position feature for axis %d: %w", s.id, d, ErrMissingFeature)
	}
	return s.Feature(PositionFeatures[d])
}

// PixelCenter returns the pixel that contains the spot position along axis d.
func (s *Spot) PixelCenter(d int, cal Calibration) (int64, error) {
	p, err := s.Position(d)
	if err != nil {
		return 0, err
	}
	return Round(cal.ToPixel(d, p)), nil
}

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func Round(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
