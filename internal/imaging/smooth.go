package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
)

// Smooth applies a Gaussian blur of the given radius before intensities are
// read. A radius of 0 or less returns img unchanged.
//
// The blurred result is 8-bit RGBA, so 16-bit grayscale input loses its
// extra precision once smoothed.
func Smooth(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return img
	}
	return blur.Gaussian(img, radius)
}
