package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// decodeResult decodes the base64 PNG carried by a CropResult.
func decodeResult(t *testing.T, result *CropResult) image.Image {
	t.Helper()
	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, image.Rect(0, 0, 50, 50), 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.X != 0 || result.Y != 0 {
		t.Errorf("origin: got (%d,%d), want (0,0)", result.X, result.Y)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	decodeResult(t, result)
}

func TestCrop_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	result, err := Crop(img, image.Rect(8, 8, 12, 12), 8.0)
	if err != nil {
		t.Fatalf("Crop with scale failed: %v", err)
	}

	if result.Width != 32 || result.Height != 32 {
		t.Errorf("scaled dimensions: got %dx%d, want 32x32", result.Width, result.Height)
	}
}

func TestCrop_ClipsToImage(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name         string
		rect         image.Rectangle
		wantX, wantY int
		wantW, wantH int
	}{
		{"inside", image.Rect(2, 3, 6, 9), 2, 3, 4, 6},
		{"left edge", image.Rect(-3, 0, 2, 4), 0, 0, 2, 4},
		{"bottom-right corner", image.Rect(18, 17, 25, 30), 18, 17, 2, 3},
		{"whole image and more", image.Rect(-5, -5, 50, 50), 0, 0, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Crop(img, tt.rect, 1.0)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if result.X != tt.wantX || result.Y != tt.wantY {
				t.Errorf("origin: got (%d,%d), want (%d,%d)", result.X, result.Y, tt.wantX, tt.wantY)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCrop_Invalid(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		rect image.Rectangle
	}{
		{"zero width", image.Rectangle{Min: image.Pt(50, 0), Max: image.Pt(50, 50)}},
		{"inverted", image.Rectangle{Min: image.Pt(60, 0), Max: image.Pt(50, 50)}},
		{"left of image", image.Rect(-10, 0, -1, 10)},
		{"below image", image.Rect(0, 100, 10, 120)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.rect, 1.0); err == nil {
				t.Error("Crop should fail")
			}
		})
	}
}

func TestCrop_VerifyContent(t *testing.T) {
	img := createPatternImage(100, 100)

	// The crop straddles all four quadrants; scaling must not blend them.
	result, err := Crop(img, image.Rect(48, 48, 52, 52), 4.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	cropped := decodeResult(t, result)

	tests := []struct {
		x, y    int
		wantHex string
	}{
		{0, 0, "#FF0000"},   // (48,48) red
		{15, 0, "#00FF00"},  // (51,48) green
		{0, 15, "#0000FF"},  // (48,51) blue
		{15, 15, "#FFFFFF"}, // (51,51) white
	}
	for _, tt := range tests {
		r, g, b, _ := cropped.At(tt.x, tt.y).RGBA()
		gotHex := "#" + toHex(uint8(r>>8)) + toHex(uint8(g>>8)) + toHex(uint8(b>>8))
		if gotHex != tt.wantHex {
			t.Errorf("color at (%d,%d): got %s, want %s", tt.x, tt.y, gotHex, tt.wantHex)
		}
	}
}

func TestCrop_OffsetBounds(t *testing.T) {
	// Sub-images keep their parent's coordinates; Crop works relative to Min.
	parent := createPatternImage(100, 100)
	sub := parent.SubImage(image.Rect(50, 50, 100, 100))

	result, err := Crop(sub, image.Rect(0, 0, 10, 10), 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	cropped := decodeResult(t, result)
	r, g, b, _ := cropped.At(5, 5).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("color: got (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func toHex(b uint8) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0xf]})
}
