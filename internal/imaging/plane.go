package imaging

import (
	"fmt"
	"image"

	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// Plane is one 2-D image held as float64 intensities.
//
// Pixel (0,0) is the top-left pixel of the decoded image, whatever its
// Bounds().Min. Reads outside the plane return 0.
type Plane struct {
	width, height int
	pix           []float64
	cal           spot.Calibration
}

// NewPlane converts img to intensities with the given mode. cal must hold at
// least two entries (x and y pixel sizes).
func NewPlane(img image.Image, mode IntensityMode, cal spot.Calibration) (*Plane, error) {
	if len(cal) < 2 {
		return nil, fmt.Errorf("plane calibration needs 2 entries, got %d", len(cal))
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image is empty")
	}
	return &Plane{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		pix:    intensities(img, mode),
		cal:    append(spot.Calibration(nil), cal[:2]...),
	}, nil
}

// Width returns the plane width in pixels.
func (p *Plane) Width() int { return p.width }

// Height returns the plane height in pixels.
func (p *Plane) Height() int { return p.height }

// NumDimensions implements neighborhood.Image; a plane is always 2-D.
func (p *Plane) NumDimensions() int { return 2 }

// Calibration returns the x and y pixel sizes.
func (p *Plane) Calibration() spot.Calibration { return p.cal }

// Value returns the intensity at (x, y), or 0 outside the plane.
func (p *Plane) Value(x, y int64) float64 {
	if x < 0 || y < 0 || x >= int64(p.width) || y >= int64(p.height) {
		return 0
	}
	return p.pix[y*int64(p.width)+x]
}

// At implements neighborhood.Image.
func (p *Plane) At(pos []int64) float64 {
	return p.Value(pos[0], pos[1])
}

// Stack is a Z series of equally sized planes.
type Stack struct {
	planes []*Plane
	cal    spot.Calibration
}

// NewStack groups planes into a 3-D image. The X and Y calibration come from
// the first plane; zStep is the distance between consecutive planes.
func NewStack(planes []*Plane, zStep float64) (*Stack, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("stack needs at least one plane")
	}
	if zStep <= 0 {
		return nil, fmt.Errorf("z step must be positive, got %g", zStep)
	}
	w, h := planes[0].width, planes[0].height
	for i, p := range planes[1:] {
		if p.width != w || p.height != h {
			return nil, fmt.Errorf("plane %d is %dx%d, expected %dx%d", i+1, p.width, p.height, w, h)
		}
	}
	return &Stack{
		planes: append([]*Plane(nil), planes...),
		cal:    spot.Calibration{planes[0].cal[0], planes[0].cal[1], zStep},
	}, nil
}

// Width returns the width of every plane in pixels.
func (s *Stack) Width() int { return s.planes[0].width }

// Height returns the height of every plane in pixels.
func (s *Stack) Height() int { return s.planes[0].height }

// Depth returns the number of planes.
func (s *Stack) Depth() int { return len(s.planes) }

// NumDimensions implements neighborhood.Image; a stack is always 3-D.
func (s *Stack) NumDimensions() int { return 3 }

// Calibration returns the x, y and z pixel sizes.
func (s *Stack) Calibration() spot.Calibration { return s.cal }

// At implements neighborhood.Image. Reads outside the stack return 0.
func (s *Stack) At(pos []int64) float64 {
	z := pos[2]
	if z < 0 || z >= int64(len(s.planes)) {
		return 0
	}
	return s.planes[z].Value(pos[0], pos[1])
}

// LoadOptions controls how files are turned into planes.
type LoadOptions struct {
	Calibration spot.Calibration
	Mode        IntensityMode
	Smooth      float64
}

func (o LoadOptions) xy() spot.Calibration {
	if len(o.Calibration) >= 2 {
		return o.Calibration[:2]
	}
	return spot.Uniform(2, 1)
}

func (o LoadOptions) zStep() float64 {
	if len(o.Calibration) >= 3 {
		return o.Calibration[2]
	}
	return 1
}

// LoadPlane reads path through the cache and converts it to a Plane.
func LoadPlane(cache *ImageCache, path string, opts LoadOptions) (*Plane, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	p, err := NewPlane(Smooth(img, opts.Smooth), opts.Mode, opts.xy())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadStack reads one file per Z plane, in order.
func LoadStack(cache *ImageCache, paths []string, opts LoadOptions) (*Stack, error) {
	planes := make([]*Plane, 0, len(paths))
	for _, path := range paths {
		p, err := LoadPlane(cache, path, opts)
		if err != nil {
			return nil, err
		}
		planes = append(planes, p)
	}
	return NewStack(planes, opts.zStep())
}
