package ui

import "strings"

// Font identifies a system font.
type Font string

const (
	// FontSmall renders text one cell per rune.
	FontSmall Font = "gothic-18"
	// FontLargeBold renders digits as five-row block glyphs.
	FontLargeBold Font = "bitham-42-bold"
)

const (
	glyphHeight = 5
	glyphGap    = " "
)

// blockGlyphs holds the large font. Runes without a glyph render blank.
var blockGlyphs = map[rune][glyphHeight]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {"  █", "  █", "  █", "  █", "  █"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	':': {" ", "█", " ", "█", " "},
	'-': {"   ", "   ", "███", "   ", "   "},
	' ': {" ", " ", " ", " ", " "},
}

var blankGlyph = [glyphHeight]string{"   ", "   ", "   ", "   ", "   "}

// Height returns the number of rows one line of text occupies.
func (f Font) Height() int {
	if f == FontLargeBold {
		return glyphHeight
	}
	return 1
}

// Bold reports whether the font is drawn bold.
func (f Font) Bold() bool {
	return f == FontLargeBold
}

// Rasterize lays text out as rows of cells.
func (f Font) Rasterize(text string) []string {
	if f != FontLargeBold {
		return []string{text}
	}

	var rows [glyphHeight]strings.Builder
	first := true
	for _, r := range text {
		glyph, ok := blockGlyphs[r]
		if !ok {
			glyph = blankGlyph
		}
		for i := range rows {
			if !first {
				rows[i].WriteString(glyphGap)
			}
			rows[i].WriteString(glyph[i])
		}
		first = false
	}

	out := make([]string, glyphHeight)
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}
