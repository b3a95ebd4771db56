package neighborhood

type cursorState int

const (
	stateFresh cursorState = iota
	statePositioned
	stateExhausted
)

// Cursor walks the bounding box of a region in raster order and stops on
// member pixels only. It buffers the next member ahead of consumption:
//
//	c := nb.Cursor()
//	for c.HasNext() {
//	    c.Fwd()
//	    v := c.Get()
//	    ...
//	}
//
// or, equivalently, `for c.Next() { ... }`.
type Cursor[T any] struct {
	img    Image[T]
	region Region
	box    Box

	state cursorState
	scan  []int64 // last raster position tested
	next  []int64 // buffered member, valid in statePositioned
	cur   []int64 // member consumed by the last Fwd
	moved bool
}

func newCursor[T any](img Image[T], region Region, box Box) *Cursor[T] {
	n := box.NumDimensions()
	return &Cursor[T]{
		img:    img,
		region: region,
		box:    box,
		scan:   make([]int64, n),
		next:   make([]int64, n),
		cur:    make([]int64, n),
	}
}

// Reset rewinds the cursor to before the first member.
func (c *Cursor[T]) Reset() {
	c.state = stateFresh
	c.moved = false
}

// Copy returns an independent cursor over the same region, rewound.
func (c *Cursor[T]) Copy() *Cursor[T] {
	return newCursor(c.img, c.region, c.box)
}

// HasNext reports whether another member pixel remains.
func (c *Cursor[T]) HasNext() bool {
	if c.state == stateFresh {
		c.start()
	}
	return c.state == statePositioned
}

// Fwd moves onto the buffered member and looks ahead for the following one.
// It does nothing once the cursor is exhausted.
func (c *Cursor[T]) Fwd() {
	if !c.HasNext() {
		return
	}
	copy(c.cur, c.next)
	c.moved = true
	c.fetch()
}

// Next advances and reports whether the cursor now sits on a member.
func (c *Cursor[T]) Next() bool {
	if !c.HasNext() {
		return false
	}
	c.Fwd()
	return true
}

// JumpFwd calls Fwd steps times.
func (c *Cursor[T]) JumpFwd(steps int) {
	for i := 0; i < steps; i++ {
		c.Fwd()
	}
}

// Get reads the image at the current position. Before the first Fwd it
// returns the zero value.
func (c *Cursor[T]) Get() T {
	if !c.moved {
		var zero T
		return zero
	}
	return c.img.At(c.cur)
}

// Position returns a copy of the current position.
func (c *Cursor[T]) Position() []int64 {
	return append([]int64(nil), c.cur...)
}

// Localize writes the current position into dst.
func (c *Cursor[T]) Localize(dst []int64) {
	copy(dst, c.cur)
}

// LongPosition returns the current coordinate along axis d.
func (c *Cursor[T]) LongPosition(d int) int64 {
	return c.cur[d]
}

// Sample returns the current position and value.
func (c *Cursor[T]) Sample() Sample[T] {
	return Sample[T]{Position: c.Position(), Value: c.Get()}
}

// NumDimensions returns the number of axes iterated.
func (c *Cursor[T]) NumDimensions() int {
	return c.box.NumDimensions()
}

func (c *Cursor[T]) start() {
	if c.box.Empty() {
		c.state = stateExhausted
		return
	}
	copy(c.scan, c.box.min)
	c.scan[0]--
	c.fetch()
}

// fetch scans forward from the last tested position to the next member.
func (c *Cursor[T]) fetch() {
	for c.step() {
		if c.region.Contains(c.scan) {
			copy(c.next, c.scan)
			c.state = statePositioned
			return
		}
	}
	c.state = stateExhausted
}

// step moves scan to the following raster position, axis 0 fastest.
func (c *Cursor[T]) step() bool {
	for d := range c.scan {
		c.scan[d]++
		if c.scan[d] < c.box.max[d] {
			return true
		}
		c.scan[d] = c.box.min[d]
	}
	return false
}
