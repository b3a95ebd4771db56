package neighborhood

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// rampImage encodes each position into its value: x + 1000*y + 1e6*z.
type rampImage struct {
	cal spot.Calibration
}

func (r rampImage) NumDimensions() int { return len(r.cal) }
func (r rampImage) Calibration() spot.Calibration { return r.cal }
func (r rampImage) At(pos []int64) float64 {
	v, scale := 0.0, 1.0
	for _, p := range pos {
		v += float64(p) * scale
		scale *= 1000
	}
	return v
}

func newSquareSpot(t *testing.T, x, y, half float64) *spot.Spot {
	t.Helper()
	roi, err := spot.NewRoi(
		[]float64{-half, half, half, -half},
		[]float64{-half, -half, half, half},
	)
	require.NoError(t, err)
	return spot.New(1, map[string]float64{
		spot.PositionX: x,
		spot.PositionY: y,
		spot.Radius:    half,
	}, roi)
}

func radiusSpot(x, y, z, radius float64) *spot.Spot {
	return spot.New(7, map[string]float64{
		spot.PositionX: x,
		spot.PositionY: y,
		spot.PositionZ: z,
		spot.Radius:    radius,
	}, nil)
}

func drainPositions[T any](c *Cursor[T]) [][]int64 {
	var out [][]int64
	for c.HasNext() {
		c.Fwd()
		out = append(out, c.Position())
	}
	return out
}

func TestNew_SquareRoi(t *testing.T) {
	s := newSquareSpot(t, 10, 10, 2)
	nb, err := New[float64](s, rampImage{cal: spot.Calibration{1, 1}})
	require.NoError(t, err)

	assert.Equal(t, ModeRoi, nb.Mode())
	assert.Equal(t, 2, nb.NumDimensions())
	assert.Equal(t, int64(8), nb.Min(0))
	assert.Equal(t, int64(8), nb.Min(1))
	assert.Equal(t, int64(12), nb.Max(0))
	assert.Equal(t, int64(12), nb.Max(1))
	assert.Equal(t, int64(16), nb.Size())

	for sample := range nb.Samples() {
		assert.True(t, nb.Box().Contains(sample.Position), "sample %v outside %v", sample.Position, nb.Box())
		assert.GreaterOrEqual(t, sample.Position[0], int64(8))
		assert.Less(t, sample.Position[0], int64(12))
		assert.GreaterOrEqual(t, sample.Position[1], int64(8))
		assert.Less(t, sample.Position[1], int64(12))
	}
}

func TestNew_SquareRoiCalibrated(t *testing.T) {
	// 0.5 µm pixels: a 2 µm square centered at (5, 5) µm covers pixels 8..11.
	s := newSquareSpot(t, 5, 5, 1)
	nb, err := New[float64](s, rampImage{cal: spot.Calibration{0.5, 0.5}})
	require.NoError(t, err)

	assert.Equal(t, ModeRoi, nb.Mode())
	assert.Equal(t, "[8,12)x[8,12)", nb.Box().String())
	assert.Equal(t, int64(16), nb.Size())
}

func TestNew_SmallRadiusFallsBack(t *testing.T) {
	s := spot.New(3, map[string]float64{
		spot.PositionX: 10,
		spot.PositionY: 10,
		spot.Radius:    0.4,
	}, nil)
	nb, err := New[float64](s, rampImage{cal: spot.Calibration{1, 1}})
	require.NoError(t, err)

	assert.Equal(t, ModeSinglePixel, nb.Mode())
	got := drainPositions(nb.Cursor())
	if diff := cmp.Diff([][]int64{{10, 10}}, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_DegenerateRoiFallsBackToRoundedCenter(t *testing.T) {
	roi, err := spot.NewRoi([]float64{-0.1, 0.1, 0.1, -0.1}, []float64{-0.1, -0.1, 0.1, 0.1})
	require.NoError(t, err)
	s := spot.New(4, map[string]float64{spot.PositionX: 10.4, spot.PositionY: 20.6}, roi)

	nb, err := New[float64](s, rampImage{cal: spot.Calibration{1, 1}})
	require.NoError(t, err)

	assert.Equal(t, ModeSinglePixel, nb.Mode())
	require.Equal(t, int64(1), nb.Size())
	v, ok := nb.FirstElement()
	require.True(t, ok)
	assert.Equal(t, 10.0+1000*21, v)
}

func TestNew_FallbackCoversEveryAxis(t *testing.T) {
	s := radiusSpot(5, 5, 6, 0.2)
	nb, err := New[float64](s, rampImage{cal: spot.Calibration{0.5, 0.5, 2}})
	require.NoError(t, err)

	assert.Equal(t, ModeSinglePixel, nb.Mode())
	assert.Equal(t, 3, nb.NumDimensions())
	got := drainPositions(nb.Cursor())
	if diff := cmp.Diff([][]int64{{10, 10, 3}}, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_RoiIgnoredOutsidePlane(t *testing.T) {
	roi, err := spot.NewRoi([]float64{-2, 2, 2, -2}, []float64{-2, -2, 2, 2})
	require.NoError(t, err)
	s := spot.New(5, map[string]float64{
		spot.PositionX: 10,
		spot.PositionY: 10,
		spot.PositionZ: 4,
		spot.Radius:    1,
	}, roi)

	nb, err := New[float64](s, rampImage{cal: spot.Calibration{1, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, ModeRadius, nb.Mode())
	assert.Equal(t, 3, nb.NumDimensions())
	// 3-D cross: center plus six face neighbours.
	assert.Equal(t, int64(7), nb.Size())
}

func TestNew_RadiusDisk(t *testing.T) {
	tests := []struct {
		name     string
		cal      spot.Calibration
		x, y     float64
		radius   float64
		wantSize int64
		wantBox  string
	}{
		{"isotropic radius 2", spot.Calibration{1, 1}, 10, 10, 2, 13, "[8,13)x[8,13)"},
		{"anisotropic", spot.Calibration{1, 2}, 10, 10, 2, 7, "[8,13)x[4,7)"},
		{"radius 1 cross", spot.Calibration{1, 1}, 10, 10, 1, 5, "[9,12)x[9,12)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := spot.New(1, map[string]float64{
				spot.PositionX: tt.x,
				spot.PositionY: tt.y,
				spot.Radius:    tt.radius,
			}, nil)
			nb, err := New[float64](s, rampImage{cal: tt.cal})
			require.NoError(t, err)
			assert.Equal(t, ModeRadius, nb.Mode())
			assert.Equal(t, tt.wantSize, nb.Size())
			assert.Equal(t, tt.wantBox, nb.Box().String())
		})
	}
}

func TestNew_SizeMonotonicInRadius(t *testing.T) {
	for _, cal := range []spot.Calibration{{1, 1}, {0.3, 0.7}, {1, 1, 2.5}} {
		prev := int64(0)
		for r := 0.0; r <= 6; r += 0.25 {
			s := radiusSpot(12, 12, 12, r)
			nb, err := New[float64](s, rampImage{cal: cal})
			require.NoError(t, err)
			size := nb.Size()
			assert.GreaterOrEqual(t, size, prev, "cal %v radius %.2f", cal, r)
			assert.GreaterOrEqual(t, size, int64(1))
			prev = size
		}
	}
}

func TestNew_MissingFeatures(t *testing.T) {
	img := rampImage{cal: spot.Calibration{1, 1}}

	noRadius := spot.New(1, map[string]float64{spot.PositionX: 1, spot.PositionY: 1}, nil)
	_, err := New[float64](noRadius, img)
	assert.True(t, errors.Is(err, spot.ErrMissingFeature), "got %v", err)

	roi, rerr := spot.NewRoi([]float64{-1, 1, 0}, []float64{0, 0, 1})
	require.NoError(t, rerr)
	noY := spot.New(2, map[string]float64{spot.PositionX: 1}, roi)
	_, err = New[float64](noY, img)
	assert.ErrorIs(t, err, spot.ErrMissingFeature)

	noZ := spot.New(3, map[string]float64{spot.PositionX: 1, spot.PositionY: 1, spot.Radius: 2}, nil)
	_, err = New[float64](noZ, rampImage{cal: spot.Calibration{1, 1, 1}})
	assert.ErrorIs(t, err, spot.ErrMissingFeature)
}

type badImage struct{ rampImage }

func (badImage) NumDimensions() int { return 3 }

func TestNew_DimensionMismatch(t *testing.T) {
	s := radiusSpot(1, 1, 1, 1)
	_, err := New[float64](s, badImage{rampImage{cal: spot.Calibration{1, 1}}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNeighborhood_SamplesCarryImageValues(t *testing.T) {
	s := newSquareSpot(t, 10, 10, 2)
	nb, err := New[float64](s, rampImage{cal: spot.Calibration{1, 1}})
	require.NoError(t, err)

	n := 0
	for sample := range nb.Samples() {
		want := float64(sample.Position[0]) + 1000*float64(sample.Position[1])
		assert.Equal(t, want, sample.Value)
		n++
	}
	assert.Equal(t, 16, n)
}

func TestNeighborhood_SamplesStopEarly(t *testing.T) {
	s := newSquareSpot(t, 10, 10, 2)
	nb, err := New[float64](s, rampImage{cal: spot.Calibration{1, 1}})
	require.NoError(t, err)

	n := 0
	for range nb.Samples() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestFromRegion_NoFallback(t *testing.T) {
	roi, err := spot.NewRoi([]float64{0, 0.2, 0.2}, []float64{0, 0, 0.2})
	require.NoError(t, err)
	s := spot.New(9, map[string]float64{spot.PositionX: 10.5, spot.PositionY: 10.5}, roi)
	region, err := PolygonRegion(s, spot.Calibration{1, 1})
	require.NoError(t, err)

	nb := FromRegion[float64](rampImage{cal: spot.Calibration{1, 1}}, region)
	assert.Equal(t, ModeRoi, nb.Mode())
	assert.Equal(t, int64(0), nb.Size())
	_, ok := nb.FirstElement()
	assert.False(t, ok)
}
