// Package features computes per-spot measurements from the pixels a
// neighborhood yields. Every measurement drains one cursor; nothing is cached.
package features

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/spot-tools-mcp/internal/neighborhood"
	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// IntensityStats summarizes the pixel values of one spot.
type IntensityStats struct {
	SpotID int    `json:"spot_id"`
	Mode   string `json:"mode"`

	// Count is the number of member pixels.
	Count int `json:"count"`

	// Volume is Count times the physical size of one pixel (an area in 2-D).
	Volume float64 `json:"volume"`

	Mean   float64 `json:"mean"`
	Median float64 `json:"median"` // lower median for even counts
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Total  float64 `json:"total"`
	StdDev float64 `json:"std_dev"` // sample standard deviation, 0 for one pixel

	// CenterOfMass is the intensity-weighted centroid in physical units. It
	// falls back to the plain centroid when the intensities sum to zero.
	CenterOfMass []float64 `json:"center_of_mass"`

	// RoiArea is the contour area in physical units, when the spot has one.
	RoiArea float64 `json:"roi_area,omitempty"`
}

// Measure builds the neighborhood of s in img and summarizes it.
func Measure(s *spot.Spot, img neighborhood.Image[float64]) (*IntensityStats, error) {
	nb, err := neighborhood.New(s, img)
	if err != nil {
		return nil, fmt.Errorf("measure spot %d: %w", s.ID(), err)
	}
	st := MeasureNeighborhood(nb)
	st.SpotID = s.ID()
	if roi := s.Roi(); roi != nil {
		st.RoiArea = roi.Area()
	}
	return st, nil
}

// MeasureAll measures every spot in order and stops at the first failure.
func MeasureAll(spots []*spot.Spot, img neighborhood.Image[float64]) ([]IntensityStats, error) {
	out := make([]IntensityStats, 0, len(spots))
	for _, s := range spots {
		st, err := Measure(s, img)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, nil
}

// MeasureNeighborhood summarizes the samples of nb. SpotID is left zero.
func MeasureNeighborhood(nb *neighborhood.Neighborhood[float64]) *IntensityStats {
	n := nb.NumDimensions()
	values := make([]float64, 0)
	coords := make([][]float64, n)

	c := nb.Cursor()
	for c.Next() {
		values = append(values, c.Get())
		for d := 0; d < n; d++ {
			coords[d] = append(coords[d], float64(c.LongPosition(d)))
		}
	}

	cal := nb.Image().Calibration()
	st := &IntensityStats{
		Mode:         nb.Mode().String(),
		Count:        len(values),
		Volume:       float64(len(values)) * cal.PixelVolume(n),
		CenterOfMass: make([]float64, n),
	}
	if len(values) == 0 {
		return st
	}

	st.Total = floats.Sum(values)
	st.Min = floats.Min(values)
	st.Max = floats.Max(values)
	if len(values) > 1 {
		st.Mean, st.StdDev = stat.MeanStdDev(values, nil)
	} else {
		st.Mean = values[0]
	}

	weights := values
	if st.Total == 0 {
		weights = nil
	}
	for d := 0; d < n; d++ {
		st.CenterOfMass[d] = cal.ToPhysical(d, stat.Mean(coords[d], weights))
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	st.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return st
}
