package ui

// Rect is a frame in character cells.
type Rect struct {
	X, Y int
	W, H int
}

// DefaultBounds is the fixed size of the watch display.
var DefaultBounds = Rect{X: 0, Y: 0, W: 36, H: 14}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the cell (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Alignment controls horizontal text placement inside a frame.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// offset returns the x offset of a line of the given width inside frameWidth.
func (a Alignment) offset(lineWidth, frameWidth int) int {
	if lineWidth >= frameWidth {
		return 0
	}
	switch a {
	case AlignCenter:
		return (frameWidth - lineWidth) / 2
	case AlignRight:
		return frameWidth - lineWidth
	default:
		return 0
	}
}
