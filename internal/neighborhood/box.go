package neighborhood

import (
	"fmt"
	"strings"
)

// Box is an axis-aligned integer pixel interval, [Min(d), Max(d)) per axis.
type Box struct {
	min []int64
	max []int64
}

// NewBox copies the bounds. lo and hi must have the same length.
func NewBox(lo, hi []int64) Box {
	if len(lo) != len(hi) {
		panic(fmt.Sprintf("neighborhood: box bounds of length %d and %d", len(lo), len(hi)))
	}
	return Box{
		min: append([]int64(nil), lo...),
		max: append([]int64(nil), hi...),
	}
}

// UnitBox returns the one-pixel box at center.
func UnitBox(center []int64) Box {
	hi := make([]int64, len(center))
	for d, c := range center {
		hi[d] = c + 1
	}
	return NewBox(center, hi)
}

// NumDimensions returns the number of axes.
func (b Box) NumDimensions() int {
	return len(b.min)
}

// Min returns the inclusive lower bound along axis d.
func (b Box) Min(d int) int64 {
	return b.min[d]
}

// Max returns the exclusive upper bound along axis d.
func (b Box) Max(d int) int64 {
	return b.max[d]
}

// Dimension returns the width of the box along axis d.
func (b Box) Dimension(d int) int64 {
	if b.max[d] <= b.min[d] {
		return 0
	}
	return b.max[d] - b.min[d]
}

// Volume returns the number of pixels in the box.
func (b Box) Volume() int64 {
	v := int64(1)
	for d := range b.min {
		v *= b.Dimension(d)
	}
	return v
}

// Empty reports whether the box holds no pixel.
func (b Box) Empty() bool {
	return b.Volume() == 0
}

// Contains reports whether pos lies inside the box.
func (b Box) Contains(pos []int64) bool {
	if len(pos) != len(b.min) {
		return false
	}
	for d, p := range pos {
		if p < b.min[d] || p >= b.max[d] {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	var sb strings.Builder
	for d := range b.min {
		if d > 0 {
			sb.WriteString("x")
		}
		fmt.Fprintf(&sb, "[%d,%d)", b.min[d], b.max[d])
	}
	return sb.String()
}
