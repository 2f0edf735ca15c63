package ui

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// Window stack errors.
var (
	ErrWindowPresent = errors.New("a window is already on the stack")
	ErrEmptyStack    = errors.New("window stack is empty")
	ErrDestroyed     = errors.New("window has been destroyed")
)

// WindowHandlers are the lifecycle callbacks of a window.
type WindowHandlers struct {
	Load   func(w *Window)
	Unload func(w *Window)
}

// Window is the single top-level display surface.
type Window struct {
	root       *RootLayer
	handlers   WindowHandlers
	background lipgloss.TerminalColor
	loaded     bool
	destroyed  bool
}

// NewWindow creates a window with the given bounds.
func NewWindow(bounds Rect) *Window {
	return &Window{
		root:       newRootLayer(bounds),
		background: lipgloss.NoColor{},
	}
}

// SetHandlers installs the lifecycle callbacks.
func (w *Window) SetHandlers(h WindowHandlers) { w.handlers = h }

// SetBackgroundColor sets the window fill color.
func (w *Window) SetBackgroundColor(c lipgloss.TerminalColor) { w.background = c }

// RootLayer returns the root of the layer tree.
func (w *Window) RootLayer() *RootLayer { return w.root }

// Bounds returns the window size.
func (w *Window) Bounds() Rect { return w.root.Bounds() }

// Loaded reports whether the load handler has run without a matching unload.
func (w *Window) Loaded() bool { return w.loaded }

// Destroy releases the window. It must not be on the stack.
func (w *Window) Destroy() {
	w.root.children = nil
	w.destroyed = true
}

// Canvas composites the layer tree onto a fresh canvas.
func (w *Window) Canvas() *Canvas {
	b := w.Bounds()
	c := NewCanvas(b.W, b.H, lipgloss.NewStyle().Background(w.background))
	w.root.Draw(c)
	return c
}

// Render returns the styled window contents.
func (w *Window) Render() string {
	return w.Canvas().Render()
}

// Stack holds at most one window, the one currently shown.
type Stack struct {
	top    *Window
	logger *slog.Logger
}

// NewStack creates an empty window stack.
func NewStack(logger *slog.Logger) *Stack {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stack{logger: logger}
}

// Push shows w and runs its load handler.
func (s *Stack) Push(w *Window) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if s.top != nil {
		return ErrWindowPresent
	}
	s.top = w
	w.loaded = true
	if w.handlers.Load != nil {
		w.handlers.Load(w)
	}
	s.logger.Debug("window pushed", "bounds", w.Bounds())
	return nil
}

// Pop removes the shown window and runs its unload handler.
func (s *Stack) Pop() (*Window, error) {
	w := s.top
	if w == nil {
		return nil, ErrEmptyStack
	}
	s.top = nil
	if w.handlers.Unload != nil {
		w.handlers.Unload(w)
	}
	w.loaded = false
	s.logger.Debug("window popped")
	return w, nil
}

// Top returns the shown window, or nil.
func (s *Stack) Top() *Window { return s.top }
