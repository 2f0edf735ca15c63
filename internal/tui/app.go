// Package tui hosts the watch face in a BubbleTea program: it owns the window
// stack, drives the lifecycle, and delivers minute ticks and health events to
// the event bridge one at a time.
package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/watchface/internal/bridge"
	"github.com/jmylchreest/watchface/internal/clock"
	"github.com/jmylchreest/watchface/internal/face"
	"github.com/jmylchreest/watchface/internal/health"
	"github.com/jmylchreest/watchface/internal/ui"
)

// ErrInvalidTransition is returned when a lifecycle step runs out of order.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// State is the application lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateWindowLoaded
	StateRunning
	StateWindowUnloaded
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWindowLoaded:
		return "window_loaded"
	case StateRunning:
		return "running"
	case StateWindowUnloaded:
		return "window_unloaded"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// AppOptions configures an App.
type AppOptions struct {
	Version face.Version
	Clock   clock.Clock
	Health  health.Service // nil when the host has no health capability
	Logger  *slog.Logger
}

// App is one watch face process: controller, bridge and window stack.
type App struct {
	state      State
	stack      *ui.Stack
	controller *face.Controller
	bridge     *bridge.Bridge
	logger     *slog.Logger
}

// NewApp creates an uninitialized app.
func NewApp(opts AppOptions) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	controller := face.New(face.Options{
		Version: opts.Version,
		Clock:   opts.Clock,
		Health:  opts.Health,
		Logger:  logger,
	})

	return &App{
		state:      StateUninitialized,
		stack:      ui.NewStack(logger),
		controller: controller,
		bridge:     bridge.New(controller, opts.Version, opts.Health, logger),
		logger:     logger,
	}
}

// State returns the current lifecycle state.
func (a *App) State() State { return a.state }

// Controller returns the display controller.
func (a *App) Controller() *face.Controller { return a.controller }

// Bridge returns the event bridge.
func (a *App) Bridge() *bridge.Bridge { return a.bridge }

// Window returns the controller's window.
func (a *App) Window() *ui.Window { return a.controller.Window() }

func (a *App) transition(from, to State) error {
	if a.state != from {
		return fmt.Errorf("%w: %s -> %s from %s", ErrInvalidTransition, from, to, a.state)
	}
	a.logger.Debug("lifecycle transition", "from", from.String(), "to", to.String())
	a.state = to
	return nil
}

// Start pushes the window and registers event subscriptions.
func (a *App) Start() error {
	if err := a.transition(StateUninitialized, StateWindowLoaded); err != nil {
		return err
	}
	if err := a.stack.Push(a.controller.Window()); err != nil {
		return fmt.Errorf("failed to push window: %w", err)
	}

	a.bridge.Start()
	return a.transition(StateWindowLoaded, StateRunning)
}

// Shutdown pops the window, cancels subscriptions and destroys the window.
func (a *App) Shutdown() error {
	if err := a.transition(StateRunning, StateWindowUnloaded); err != nil {
		return err
	}

	a.bridge.Stop()
	w, err := a.stack.Pop()
	if err != nil {
		return fmt.Errorf("failed to pop window: %w", err)
	}
	w.Destroy()

	return a.transition(StateWindowUnloaded, StateTerminated)
}
