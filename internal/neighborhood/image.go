package neighborhood

import "github.com/ironsheep/spot-tools-mcp/internal/spot"

// Image is the read-only pixel buffer a spot lives in.
//
// At must accept any position with NumDimensions entries, including ones
// outside the buffer; the implementation decides what to return there.
type Image[T any] interface {
	NumDimensions() int
	Calibration() spot.Calibration
	At(pos []int64) T
}

// Sample is one member pixel: its position and the value read from the image.
type Sample[T any] struct {
	Position []int64 `json:"position"`
	Value    T       `json:"value"`
}
