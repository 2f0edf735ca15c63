// Package bridge connects host event sources to the display controller: the
// minute tick timer and the health event stream.
package bridge

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/watchface/internal/face"
	"github.com/jmylchreest/watchface/internal/health"
)

// Display is the part of the display controller the bridge drives.
type Display interface {
	UpdateTime()
	UpdateSteps()
}

// eventBuffer bounds health events queued for the event loop.
const eventBuffer = 16

// Bridge forwards timer and health events into a Display.
type Bridge struct {
	display Display
	version face.Version
	health  health.Service
	logger  *slog.Logger

	ticks      bool
	subscribed bool
	events     chan health.Event
}

// New creates a bridge. svc is nil when the host has no health capability.
func New(display Display, version face.Version, svc health.Service, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		display: display,
		version: version,
		health:  svc,
		logger:  logger,
		events:  make(chan health.Event, eventBuffer),
	}
}

// Start registers the subscriptions the face version uses. Health
// subscription failures are logged and leave the face showing time only.
func (b *Bridge) Start() {
	if !b.version.TicksEveryMinute() {
		b.logger.Debug("no timer subscription", "version", b.version.String())
		return
	}

	b.ticks = true
	b.display.UpdateTime()

	if !b.version.ShowsSteps() {
		return
	}

	if b.health == nil {
		b.logger.Info("health capability not available, showing time only")
		return
	}

	if err := b.health.Subscribe(b.enqueue); err != nil {
		b.logger.Error("health subscription failed", "source", b.health.Name(), "error", err)
		return
	}
	b.subscribed = true
	b.logger.Debug("subscribed to health events", "source", b.health.Name())
}

// enqueue hands an event from the service's goroutine to the event loop.
func (b *Bridge) enqueue(ev health.Event) {
	select {
	case b.events <- ev:
	default:
		b.logger.Warn("health event queue full, dropping event", "kind", ev.Kind.String(), "event", ev.ID.String())
	}
}

// Events returns the queue the event loop reads health events from.
func (b *Bridge) Events() <-chan health.Event { return b.events }

// TicksEnabled reports whether a minute timer is registered.
func (b *Bridge) TicksEnabled() bool { return b.ticks }

// Subscribed reports whether the health subscription is active.
func (b *Bridge) Subscribed() bool { return b.subscribed }

// OnMinuteTick handles one minute tick.
func (b *Bridge) OnMinuteTick(t time.Time) {
	if !b.ticks {
		return
	}
	b.display.UpdateTime()
	if b.version.ShowsSteps() {
		b.display.UpdateSteps()
	}
}

// OnHealthEvent handles one health event.
func (b *Bridge) OnHealthEvent(ev health.Event) {
	if !b.subscribed {
		return
	}

	switch ev.Kind {
	case health.EventMovementUpdate:
		b.logger.Debug("movement update", "event", ev.ID.String())
		b.display.UpdateSteps()
	case health.EventSignificantUpdate, health.EventSleepUpdate:
		// Not displayed.
	default:
		b.logger.Debug("unknown health event", "kind", uint32(ev.Kind))
	}
}

// Stop cancels the health subscription.
func (b *Bridge) Stop() {
	b.ticks = false
	if !b.subscribed {
		return
	}
	b.subscribed = false
	if err := b.health.Unsubscribe(); err != nil {
		b.logger.Warn("health unsubscribe failed", "error", err)
	}
}
