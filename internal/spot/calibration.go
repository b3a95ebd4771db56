package spot

// Calibration is the physical size of one pixel along each image axis.
type Calibration []float64

// NumDimensions returns the number of calibrated axes.
func (c Calibration) NumDimensions() int {
	return len(c)
}

// ToPixel converts a physical coordinate along axis d to pixel units.
func (c Calibration) ToPixel(d int, v float64) float64 {
	return v / c[d]
}

// ToPhysical converts a pixel coordinate along axis d to physical units.
func (c Calibration) ToPhysical(d int, v float64) float64 {
	return v * c[d]
}

// PixelVolume returns the physical volume of one pixel over the first n axes.
func (c Calibration) PixelVolume(n int) float64 {
	v := 1.0
	for d := 0; d < n && d < len(c); d++ {
		v *= c[d]
	}
	return v
}

// Uniform returns an n-axis calibration with every entry set to scale.
func Uniform(n int, scale float64) Calibration {
	c := make(Calibration, n)
	for d := range c {
		c[d] = scale
	}
	return c
}
