package detection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/spot-tools-mcp/internal/neighborhood"
	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// ErrInvalidOptions is returned for a non-positive radius or a negative limit.
var ErrInvalidOptions = errors.New("invalid detection options")

// Plane is a bounded 2-D intensity image, such as *imaging.Plane.
type Plane interface {
	neighborhood.Image[float64]
	Width() int
	Height() int
}

// Options controls DetectSpots.
type Options struct {
	// Radius is the expected spot radius in physical units. Peaks closer
	// than Radius to a brighter peak are dropped.
	Radius float64

	// Threshold is the minimum peak intensity.
	Threshold float64

	// MaxSpots keeps only the brightest spots. Zero means no limit.
	MaxSpots int
}

type peak struct {
	x, y  int64
	value float64
}

// DetectSpots returns one spot per local intensity maximum, brightest first.
// Spot IDs start at 0 and follow that order; every spot carries RADIUS and
// QUALITY (the peak value).
func DetectSpots(p Plane, opts Options) ([]*spot.Spot, error) {
	if opts.Radius <= 0 || math.IsNaN(opts.Radius) {
		return nil, fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidOptions, opts.Radius)
	}
	if opts.MaxSpots < 0 {
		return nil, fmt.Errorf("%w: max spots must not be negative, got %d", ErrInvalidOptions, opts.MaxSpots)
	}
	cal := p.Calibration()
	if len(cal) < 2 {
		return nil, fmt.Errorf("%w: calibration has %d entries, need 2", neighborhood.ErrDimensionMismatch, len(cal))
	}

	peaks := findPeaks(p, opts.Threshold)
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].value > peaks[j].value })
	peaks = filterClosePeaks(peaks, cal, opts.Radius)
	if opts.MaxSpots > 0 && len(peaks) > opts.MaxSpots {
		peaks = peaks[:opts.MaxSpots]
	}

	spots := make([]*spot.Spot, len(peaks))
	for i, pk := range peaks {
		spots[i] = spot.New(i, map[string]float64{
			spot.PositionX: cal.ToPhysical(0, float64(pk.x)),
			spot.PositionY: cal.ToPhysical(1, float64(pk.y)),
			spot.Radius:    opts.Radius,
			spot.Quality:   pk.value,
		}, nil)
	}
	return spots, nil
}

// findPeaks returns the 8-connected local maxima at or above threshold, in
// raster order. On a plateau only the first pixel in raster order survives:
// it must beat earlier neighbors strictly and later neighbors weakly.
func findPeaks(p Plane, threshold float64) []peak {
	w, h := int64(p.Width()), int64(p.Height())
	pos := make([]int64, 2)
	at := func(x, y int64) float64 {
		pos[0], pos[1] = x, y
		return p.At(pos)
	}

	var peaks []peak
	for y := int64(0); y < h; y++ {
		for x := int64(0); x < w; x++ {
			v := at(x, y)
			if v < threshold {
				continue
			}
			if isPeak(at, x, y, v, w, h) {
				peaks = append(peaks, peak{x: x, y: y, value: v})
			}
		}
	}
	return peaks
}

func isPeak(at func(x, y int64) float64, x, y int64, v float64, w, h int64) bool {
	for ny := max(0, y-1); ny <= min(h-1, y+1); ny++ {
		for nx := max(0, x-1); nx <= min(w-1, x+1); nx++ {
			if nx == x && ny == y {
				continue
			}
			q := at(nx, ny)
			earlier := ny < y || (ny == y && nx < x)
			if q > v || (earlier && q == v) {
				return false
			}
		}
	}
	return true
}

// filterClosePeaks drops peaks closer than radius (physical units) to an
// already kept, brighter peak. peaks must be sorted brightest first.
func filterClosePeaks(peaks []peak, cal spot.Calibration, radius float64) []peak {
	kept := make([]peak, 0, len(peaks))
	for _, c := range peaks {
		isDuplicate := false
		for _, k := range kept {
			dx := float64(c.x-k.x) * cal[0]
			dy := float64(c.y-k.y) * cal[1]
			if math.Hypot(dx, dy) < radius {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			kept = append(kept, c)
		}
	}
	return kept
}
