package health

import (
	"sync"
	"time"
)

// StaticService reports a fixed mask and step count.
type StaticService struct {
	mu           sync.Mutex
	mask         AccessibilityMask
	steps        int
	subscribeErr error
	handler      Handler
}

// NewStaticService creates an always-available service reporting steps.
func NewStaticService(steps int) *StaticService {
	return &StaticService{
		mask:  AccessibilityAvailable,
		steps: steps,
	}
}

// Name returns "static".
func (s *StaticService) Name() string { return "static" }

// SetMask replaces the reported accessibility mask.
func (s *StaticService) SetMask(mask AccessibilityMask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mask = mask
}

// SetSteps replaces the reported step count.
func (s *StaticService) SetSteps(steps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = steps
}

// FailSubscribe makes the next Subscribe calls return err.
func (s *StaticService) FailSubscribe(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribeErr = err
}

// Accessible returns the configured mask for step count.
func (s *StaticService) Accessible(metric Metric, start, end time.Time) AccessibilityMask {
	if metric != MetricStepCount {
		return AccessibilityNotSupported
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mask
}

// SumToday returns the configured step count.
func (s *StaticService) SumToday(metric Metric) int {
	if metric != MetricStepCount {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// Subscribe registers the handler.
func (s *StaticService) Subscribe(handler Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribeErr != nil {
		return s.subscribeErr
	}
	if s.handler != nil {
		return ErrAlreadySubscribed
	}
	s.handler = handler
	return nil
}

// Unsubscribe removes the handler.
func (s *StaticService) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = nil
	return nil
}

// Subscribed reports whether a handler is registered.
func (s *StaticService) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler != nil
}

// Emit delivers an event to the handler, if any. Reports whether it was delivered.
func (s *StaticService) Emit(kind EventKind) bool {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h == nil {
		return false
	}
	h(NewEvent(kind))
	return true
}
