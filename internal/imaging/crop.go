package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped image data
type CropResult struct {
	// X and Y locate the top-left pixel of the crop in the source image.
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts rect from img and optionally rescales it.
//
// rect uses the same pixel coordinates as Plane: (0,0) is the top-left pixel
// of img. The rectangle is clipped to the image; a rectangle that misses the
// image entirely is an error. Scaling uses nearest-neighbor so single pixels
// stay visible as blocks.
func Crop(img image.Image, rect image.Rectangle, scale float64) (*CropResult, error) {
	view, err := clipToImage(img, rect)
	if err != nil {
		return nil, err
	}

	cropped := imaging.Crop(img, view.Add(img.Bounds().Min))
	return encodeCrop(cropped, view.Min, scale)
}

// clipToImage intersects rect with the local bounds of img.
func clipToImage(img image.Image, rect image.Rectangle) (image.Rectangle, error) {
	bounds := img.Bounds()
	local := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("invalid crop region %v: x1 must be < x2, y1 must be < y2", rect)
	}
	view := rect.Intersect(local)
	if view.Empty() {
		return image.Rectangle{}, fmt.Errorf("crop region %v outside image bounds %v", rect, local)
	}
	return view, nil
}

func encodeCrop(img image.Image, origin image.Point, scale float64) (*CropResult, error) {
	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(img.Bounds().Dx()) * scale)
		newHeight := int(float64(img.Bounds().Dy()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		img = imaging.Resize(img, newWidth, newHeight, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		X:           origin.X,
		Y:           origin.Y,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
