package health

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

// Member names of the health D-Bus interface.
const (
	dbusMethodAccessible = "MetricAccessible"
	dbusMethodSumToday   = "SumToday"
	dbusSignalEvent      = "HealthEvent"
)

// DBusService is a session bus client of a health daemon exposing
//
//	MetricAccessible(u metric, x start, x end) -> u mask
//	SumToday(u metric) -> x total
//	signal HealthEvent(u kind)
//
// on the object path derived from its bus name.
type DBusService struct {
	conn   *dbus.Conn
	name   string
	path   dbus.ObjectPath
	iface  string
	logger *slog.Logger

	mu      sync.Mutex
	handler Handler
	signals chan *dbus.Signal
	done    chan struct{}
}

// NewDBusService connects to the session bus.
func NewDBusService(name string, logger *slog.Logger) (*DBusService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, &SourceError{Source: "dbus", Message: "failed to connect to session bus", Err: err}
	}

	return &DBusService{
		conn:   conn,
		name:   name,
		path:   ObjectPathForName(name),
		iface:  name,
		logger: logger,
	}, nil
}

// ObjectPathForName maps "org.example.Health1" to "/org/example/Health1".
func ObjectPathForName(name string) dbus.ObjectPath {
	return dbus.ObjectPath("/" + strings.ReplaceAll(name, ".", "/"))
}

// Name returns "dbus".
func (s *DBusService) Name() string { return "dbus" }

// Accessible asks the daemon for the accessibility mask.
func (s *DBusService) Accessible(metric Metric, start, end time.Time) AccessibilityMask {
	var mask uint32
	err := s.conn.Object(s.name, s.path).
		Call(s.iface+"."+dbusMethodAccessible, 0, uint32(metric), start.Unix(), end.Unix()).
		Store(&mask)
	if err != nil {
		s.logger.Warn("health accessibility query failed", "service", s.name, "error", err)
		return AccessibilityNotSupported
	}
	return AccessibilityMask(mask)
}

// SumToday asks the daemon for today's total.
func (s *DBusService) SumToday(metric Metric) int {
	var total int64
	err := s.conn.Object(s.name, s.path).
		Call(s.iface+"."+dbusMethodSumToday, 0, uint32(metric)).
		Store(&total)
	if err != nil {
		s.logger.Warn("health sum query failed", "service", s.name, "error", err)
		return 0
	}
	return int(total)
}

// Subscribe adds a match rule for HealthEvent signals and forwards them.
func (s *DBusService) Subscribe(handler Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handler != nil {
		return ErrAlreadySubscribed
	}

	if err := s.conn.AddMatchSignal(s.matchOptions()...); err != nil {
		return &SourceError{Source: "dbus", Message: "failed to add signal match", Err: err}
	}

	s.handler = handler
	s.signals = make(chan *dbus.Signal, 16)
	s.done = make(chan struct{})
	s.conn.Signal(s.signals)

	go s.processSignals(s.signals, s.done)

	s.logger.Info("subscribed to health events", "service", s.name)
	return nil
}

func (s *DBusService) matchOptions() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(s.path),
		dbus.WithMatchInterface(s.iface),
		dbus.WithMatchMember(dbusSignalEvent),
	}
}

// processSignals reads D-Bus signals until unsubscribed.
func (s *DBusService) processSignals(ch <-chan *dbus.Signal, done <-chan struct{}) {
	for {
		select {
		case sig, ok := <-ch:
			if !ok {
				return
			}
			kind, ok := parseEventSignal(sig, s.iface)
			if !ok {
				continue
			}

			s.mu.Lock()
			h := s.handler
			s.mu.Unlock()
			if h != nil {
				h(NewEvent(kind))
			}

		case <-done:
			return
		}
	}
}

// parseEventSignal extracts the event kind from a HealthEvent signal.
func parseEventSignal(sig *dbus.Signal, iface string) (EventKind, bool) {
	if sig == nil || sig.Name != iface+"."+dbusSignalEvent {
		return 0, false
	}
	if len(sig.Body) < 1 {
		return 0, false
	}
	raw, ok := sig.Body[0].(uint32)
	if !ok {
		return 0, false
	}
	kind := EventKind(raw)
	if kind > EventSleepUpdate {
		return 0, false
	}
	return kind, true
}

// Unsubscribe removes the match rule and stops forwarding.
func (s *DBusService) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handler == nil {
		return nil
	}

	s.handler = nil
	s.conn.RemoveSignal(s.signals)
	close(s.done)

	return s.conn.RemoveMatchSignal(s.matchOptions()...)
}

// Close releases the bus connection.
func (s *DBusService) Close() error {
	if err := s.Unsubscribe(); err != nil {
		s.logger.Debug("unsubscribe on close failed", "error", err)
	}
	return s.conn.Close()
}

// NameHasOwner reports whether name is currently owned on the session bus.
func NameHasOwner(name string) bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false
	}
	defer conn.Close()

	var has bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&has)
	return err == nil && has
}
