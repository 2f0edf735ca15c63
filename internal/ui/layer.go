package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Layer is anything that can be composited onto a window.
type Layer interface {
	Frame() Rect
	Draw(c *Canvas)
}

// RootLayer is the top of a window's layer tree.
type RootLayer struct {
	frame    Rect
	children []Layer
}

func newRootLayer(frame Rect) *RootLayer {
	return &RootLayer{frame: frame}
}

// Frame returns the window bounds.
func (l *RootLayer) Frame() Rect { return l.frame }

// Bounds returns the drawable area, which for the root is the whole window.
func (l *RootLayer) Bounds() Rect {
	return Rect{W: l.frame.W, H: l.frame.H}
}

// AddChild appends a layer. Adding a layer twice is a no-op.
func (l *RootLayer) AddChild(child Layer) {
	for _, c := range l.children {
		if c == child {
			return
		}
	}
	l.children = append(l.children, child)
}

// RemoveChild detaches a layer. Reports whether it was attached.
func (l *RootLayer) RemoveChild(child Layer) bool {
	for i, c := range l.children {
		if c == child {
			l.children = append(l.children[:i], l.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns the attached layers in draw order.
func (l *RootLayer) Children() []Layer {
	out := make([]Layer, len(l.children))
	copy(out, l.children)
	return out
}

// Draw composites the children in order.
func (l *RootLayer) Draw(c *Canvas) {
	for _, child := range l.children {
		child.Draw(c)
	}
}

// TextLayer draws a single text value inside its frame.
type TextLayer struct {
	frame     Rect
	text      string
	font      Font
	align     Alignment
	textColor lipgloss.TerminalColor
	bgColor   lipgloss.TerminalColor
	destroyed bool
}

// NewTextLayer creates a left-aligned small-font layer with no background.
func NewTextLayer(frame Rect) *TextLayer {
	return &TextLayer{
		frame:     frame,
		font:      FontSmall,
		align:     AlignLeft,
		textColor: lipgloss.NoColor{},
		bgColor:   lipgloss.NoColor{},
	}
}

// Frame returns the layer frame.
func (t *TextLayer) Frame() Rect { return t.frame }

// SetText replaces the displayed text.
func (t *TextLayer) SetText(text string) { t.text = text }

// Text returns the displayed text.
func (t *TextLayer) Text() string { return t.text }

// SetFont selects the font.
func (t *TextLayer) SetFont(f Font) { t.font = f }

// Font returns the selected font.
func (t *TextLayer) Font() Font { return t.font }

// SetAlignment sets horizontal alignment.
func (t *TextLayer) SetAlignment(a Alignment) { t.align = a }

// Alignment returns the horizontal alignment.
func (t *TextLayer) Alignment() Alignment { return t.align }

// SetTextColor sets the foreground color.
func (t *TextLayer) SetTextColor(c lipgloss.TerminalColor) { t.textColor = c }

// SetBackgroundColor sets the fill color of the frame.
func (t *TextLayer) SetBackgroundColor(c lipgloss.TerminalColor) { t.bgColor = c }

// Destroy releases the layer. A destroyed layer draws nothing.
func (t *TextLayer) Destroy() { t.destroyed = true }

// Destroyed reports whether Destroy was called.
func (t *TextLayer) Destroyed() bool { return t.destroyed }

// Draw rasterizes the text into the frame, clipping to the frame bounds.
func (t *TextLayer) Draw(c *Canvas) {
	if t.destroyed || t.frame.Empty() {
		return
	}

	style := lipgloss.NewStyle().
		Foreground(t.textColor).
		Background(t.bgColor).
		Bold(t.font.Bold())

	if _, transparent := t.bgColor.(lipgloss.NoColor); !transparent {
		c.Fill(t.frame, &style)
	}

	for i, line := range t.font.Rasterize(t.text) {
		if i >= t.frame.H {
			break
		}
		runes := []rune(line)
		if len(runes) > t.frame.W {
			runes = runes[:t.frame.W]
		}
		x := t.frame.X + t.align.offset(len(runes), t.frame.W)
		for j, r := range runes {
			c.Set(x+j, t.frame.Y+i, r, &style)
		}
	}
}
