package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r     rune
	style *lipgloss.Style
}

// Canvas is a fixed grid of styled cells.
type Canvas struct {
	width  int
	height int
	cells  []cell
	base   *lipgloss.Style
}

// NewCanvas creates a blank canvas filled with the base style.
func NewCanvas(width, height int, base lipgloss.Style) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
		base:   &base,
	}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: c.base}
	}
	return c
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// Set writes a rune at (x, y). Writes outside the canvas are dropped.
func (c *Canvas) Set(x, y int, r rune, style *lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	if style == nil {
		style = c.base
	}
	c.cells[y*c.width+x] = cell{r: r, style: style}
}

// Fill paints a rect with spaces in the given style.
func (c *Canvas) Fill(rect Rect, style *lipgloss.Style) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			c.Set(x, y, ' ', style)
		}
	}
}

// Line returns row y without styling.
func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	row := make([]rune, c.width)
	for x := 0; x < c.width; x++ {
		row[x] = c.cells[y*c.width+x].r
	}
	return string(row)
}

// String returns the whole canvas without styling.
func (c *Canvas) String() string {
	lines := make([]string, c.height)
	for y := range lines {
		lines[y] = c.Line(y)
	}
	return strings.Join(lines, "\n")
}

// Render returns the canvas with styles applied. Consecutive cells sharing a
// style are rendered as one run.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.cells[y*c.width : (y+1)*c.width]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, cl := range row[start:x] {
				run = append(run, cl.r)
			}
			b.WriteString(row[start].style.Render(string(run)))
			start = x
		}
	}
	return b.String()
}
