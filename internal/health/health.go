// Package health models the host health data service: per-metric
// accessibility over a time range, daily sums, and a change event stream.
package health

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Errors returned by health services.
var (
	ErrNoCapability      = errors.New("health capability not available")
	ErrAlreadySubscribed = errors.New("already subscribed to health events")
)

// Metric identifies a health measurement.
type Metric uint32

const (
	MetricStepCount Metric = iota
)

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case MetricStepCount:
		return "step_count"
	default:
		return "unknown"
	}
}

// AccessibilityMask describes whether a metric can be read for a range.
type AccessibilityMask uint32

const (
	AccessibilityAvailable    AccessibilityMask = 1 << 0
	AccessibilityNoPermission AccessibilityMask = 1 << 1
	AccessibilityNotSupported AccessibilityMask = 1 << 2
)

// Available reports whether the available bit is set.
func (m AccessibilityMask) Available() bool {
	return m&AccessibilityAvailable != 0
}

// String lists the set bits.
func (m AccessibilityMask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	if m&AccessibilityAvailable != 0 {
		parts = append(parts, "available")
	}
	if m&AccessibilityNoPermission != 0 {
		parts = append(parts, "no_permission")
	}
	if m&AccessibilityNotSupported != 0 {
		parts = append(parts, "not_supported")
	}
	return strings.Join(parts, "|")
}

// EventKind is the type of a health change notification.
type EventKind uint32

const (
	EventSignificantUpdate EventKind = iota
	EventMovementUpdate
	EventSleepUpdate
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventSignificantUpdate:
		return "significant_update"
	case EventMovementUpdate:
		return "movement_update"
	case EventSleepUpdate:
		return "sleep_update"
	default:
		return "unknown"
	}
}

// Event is one delivery from the health event stream.
type Event struct {
	ID   ulid.ULID
	Kind EventKind
	Time time.Time
}

// NewEvent stamps a new event with a ULID.
func NewEvent(kind EventKind) Event {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		id = ulid.Make()
	}
	return Event{ID: id, Kind: kind, Time: now}
}

// Handler receives health events. It may be called from any goroutine.
type Handler func(Event)

// Service is the host health data service.
type Service interface {
	// Name identifies the source (e.g., "dbus", "file").
	Name() string

	// Accessible returns the accessibility mask of metric over [start, end).
	Accessible(metric Metric, start, end time.Time) AccessibilityMask

	// SumToday returns today's total for metric.
	SumToday(metric Metric) int

	// Subscribe registers the single event handler.
	Subscribe(handler Handler) error

	// Unsubscribe removes the event handler.
	Unsubscribe() error
}

// StartOfToday returns local midnight of the day containing now.
func StartOfToday(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// SourceError describes a failure to open a health source.
type SourceError struct {
	Source  string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Source + ": " + e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
