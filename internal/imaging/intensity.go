package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// IntensityMode selects how a color pixel is reduced to one intensity value.
//
// Grayscale images (*image.Gray, *image.Gray16) always use their raw sample,
// 0-255 or 0-65535, whatever the mode. Color images produce values in 0-255.
type IntensityMode string

const (
	// IntensityLuma uses ITU-R BT.601 weights (0.299 R + 0.587 G + 0.114 B).
	IntensityLuma IntensityMode = "luma"

	// IntensityLightness uses CIE L* scaled to 0-255, closer to perceived
	// brightness than luma for saturated fluorophore colors.
	IntensityLightness IntensityMode = "lightness"

	// IntensityRed, IntensityGreen and IntensityBlue read a single channel,
	// matching one fluorescence channel stored as an RGB composite.
	IntensityRed   IntensityMode = "red"
	IntensityGreen IntensityMode = "green"
	IntensityBlue  IntensityMode = "blue"
)

// IntensityModes lists the accepted mode names.
var IntensityModes = []IntensityMode{
	IntensityLuma, IntensityLightness, IntensityRed, IntensityGreen, IntensityBlue,
}

// ParseIntensityMode validates a mode name. The empty string means luma.
func ParseIntensityMode(s string) (IntensityMode, error) {
	if s == "" {
		return IntensityLuma, nil
	}
	m := IntensityMode(strings.ToLower(s))
	for _, known := range IntensityModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown intensity mode %q (want one of %v)", s, IntensityModes)
}

// intensities converts img to a row-major slice of Dx()*Dy() values.
// Position (0,0) is img.Bounds().Min.
func intensities(img image.Image, mode IntensityMode) []float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]float64, width*height)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out[y*width+x] = float64(src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
			}
		}
		return out
	case *image.Gray16:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out[y*width+x] = float64(src.Gray16At(x+bounds.Min.X, y+bounds.Min.Y).Y)
			}
		}
		return out
	}

	switch mode {
	case IntensityLightness:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c, ok := colorful.MakeColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
				if !ok {
					// fully transparent
					continue
				}
				l, _, _ := c.Lab()
				out[y*width+x] = clamp255(l * 255)
			}
		}
	case IntensityRed, IntensityGreen, IntensityBlue:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				var v uint32
				switch mode {
				case IntensityRed:
					v = r
				case IntensityGreen:
					v = g
				default:
					v = b
				}
				out[y*width+x] = float64(v >> 8)
			}
		}
	default:
		gray := imaging.Grayscale(img)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out[y*width+x] = float64(gray.Pix[y*gray.Stride+x*4])
			}
		}
	}
	return out
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
