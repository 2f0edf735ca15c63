// Package ui provides the host-side display primitives a watch face builds on:
// a window stack holding a single window, text layers attached to the window's
// root layer, bitmap-style fonts, and a character canvas the window is
// composited onto before Lip Gloss renders it to the terminal.
package ui
