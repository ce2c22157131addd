package core

// Rect represents an axis-aligned cell rectangle used for mouse hit testing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// LayoutRow returns n rectangles of size w x h laid out left to right from
// (x, y) with gap cells between them.
func LayoutRow(x, y, n, w, h, gap int) []Rect {
	rects := make([]Rect, n)
	for i := range rects {
		rects[i] = NewRect(x+i*(w+gap), y, w, h)
	}
	return rects
}

// HitIndex returns the index of the first rect containing (x, y), or -1.
func HitIndex(rects []Rect, x, y int) int {
	for i, r := range rects {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
