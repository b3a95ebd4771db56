package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultOverlayColor tints member pixels when no color is given.
const DefaultOverlayColor = "#FF00FF"

// OverlayOptions controls MaskOverlay rendering.
type OverlayOptions struct {
	// Color is a "#RRGGBB" hex color for the mask and the box outline.
	Color string

	// Opacity of the mask tint, 0-1. Zero means 0.5.
	Opacity float64

	// Padding adds context pixels around the box. The outline is only
	// visible when Padding >= 1.
	Padding int

	// Scale is applied last with nearest-neighbor resampling.
	Scale float64

	// Label is drawn in the top-left corner when non-empty. Digits, comma
	// and minus are rendered; other characters leave a gap.
	Label string
}

// MaskOverlay renders the area around box with the member pixels tinted and
// the box outlined. box and members use Plane coordinates.
func MaskOverlay(img image.Image, box image.Rectangle, members []image.Point, opts OverlayOptions) (*CropResult, error) {
	hex := opts.Color
	if hex == "" {
		hex = DefaultOverlayColor
	}
	tint, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay color %q: %w", hex, err)
	}
	opacity := opts.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 0.5
	}

	view, err := clipToImage(img, box.Inset(-opts.Padding))
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, view.Dx(), view.Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min.Add(view.Min), draw.Src)

	for _, p := range members {
		if !p.In(view) {
			continue
		}
		x, y := p.X-view.Min.X, p.Y-view.Min.Y
		base, ok := colorful.MakeColor(out.At(x, y))
		if !ok {
			base = colorful.Color{}
		}
		out.Set(x, y, base.BlendRgb(tint, opacity).Clamped())
	}

	drawOutline(out, box.Inset(-1).Sub(view.Min), tint.Clamped())

	if opts.Label != "" {
		drawLabel(out, 1, 1, opts.Label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}

	return encodeCrop(out, view.Min, opts.Scale)
}

// drawOutline draws the one-pixel border of r, clipped to img.
func drawOutline(img *image.RGBA, r image.Rectangle, c color.Color) {
	bounds := img.Bounds()
	set := func(x, y int) {
		if (image.Point{x, y}).In(bounds) {
			img.Set(x, y, c)
		}
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		set(x, r.Min.Y)
		set(x, r.Max.Y-1)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		set(r.Min.X, y)
		set(r.Max.X-1, y)
	}
}

// drawLabel draws a simple text label at the given position
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	// 3x5 pixel font for digits, comma and minus
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'-': {"000", "000", "111", "000", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 6

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
