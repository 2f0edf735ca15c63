package health

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Sample is one step-count reading from the data file.
type Sample struct {
	Time  time.Time `yaml:"time"`
	Steps int       `yaml:"steps"`
}

// SampleFile is the on-disk layout read by FileService.
//
//	permission: true
//	samples:
//	  - time: 2026-10-19T08:15:00+01:00
//	    steps: 1200
type SampleFile struct {
	Permission *bool    `yaml:"permission,omitempty"`
	Samples    []Sample `yaml:"samples"`
}

// FileService reads step samples from a YAML file and watches it for changes.
type FileService struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	handler Handler
	watcher *fsnotify.Watcher
	done    chan struct{}
	lastSum int
}

// NewFileService creates a service backed by the file at path.
func NewFileService(path string, logger *slog.Logger) *FileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileService{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns "file".
func (f *FileService) Name() string { return "file" }

// Path returns the watched file.
func (f *FileService) Path() string { return f.path }

// load parses the data file.
func (f *FileService) load() (*SampleFile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var sf SampleFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return &sf, nil
}

// Accessible reports NotSupported when the file is missing or unreadable and
// NoPermission when the file denies access.
func (f *FileService) Accessible(metric Metric, start, end time.Time) AccessibilityMask {
	if metric != MetricStepCount {
		return AccessibilityNotSupported
	}
	sf, err := f.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("failed to read health file", "path", f.path, "error", err)
		}
		return AccessibilityNotSupported
	}
	if sf.Permission != nil && !*sf.Permission {
		return AccessibilityNoPermission
	}
	if !end.After(start) {
		return AccessibilityNotSupported
	}
	return AccessibilityAvailable
}

// SumToday sums samples in [start of today, now).
func (f *FileService) SumToday(metric Metric) int {
	if metric != MetricStepCount {
		return 0
	}
	sf, err := f.load()
	if err != nil {
		return 0
	}
	now := f.now()
	return sumRange(sf.Samples, StartOfToday(now), now)
}

// LastSample returns the most recent sample time, if any.
func (f *FileService) LastSample() (time.Time, bool) {
	sf, err := f.load()
	if err != nil || len(sf.Samples) == 0 {
		return time.Time{}, false
	}
	latest := sf.Samples[0].Time
	for _, s := range sf.Samples[1:] {
		if s.Time.After(latest) {
			latest = s.Time
		}
	}
	return latest, true
}

func sumRange(samples []Sample, start, end time.Time) int {
	total := 0
	for _, s := range samples {
		if s.Time.Before(start) || !s.Time.Before(end) {
			continue
		}
		total += s.Steps
	}
	return total
}

// Subscribe starts watching the file. The handler receives MovementUpdate when
// today's sum changed and SignificantUpdate for any other rewrite.
func (f *FileService) Subscribe(handler Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handler != nil {
		return ErrAlreadySubscribed
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &SourceError{Source: "file", Message: "failed to create watcher", Err: err}
	}

	// Watch the directory containing the file (more reliable for writes)
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return &SourceError{Source: "file", Message: "failed to watch " + dir, Err: err}
	}

	f.handler = handler
	f.watcher = watcher
	f.done = make(chan struct{})
	f.lastSum = f.SumToday(MetricStepCount)

	go f.watch(watcher, f.done)
	return nil
}

// watch is the main watch loop.
func (f *FileService) watch(watcher *fsnotify.Watcher, done chan struct{}) {
	filename := filepath.Base(f.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				f.dispatch()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("health file watcher error", "error", err)

		case <-done:
			return
		}
	}
}

// dispatch classifies a file change and forwards it to the handler.
func (f *FileService) dispatch() {
	sum := f.SumToday(MetricStepCount)

	f.mu.Lock()
	h := f.handler
	kind := EventSignificantUpdate
	if sum != f.lastSum {
		kind = EventMovementUpdate
	}
	f.lastSum = sum
	f.mu.Unlock()

	if h == nil {
		return
	}
	ev := NewEvent(kind)
	f.logger.Debug("health file changed", "path", f.path, "kind", kind.String(), "event", ev.ID.String())
	h(ev)
}

// Unsubscribe stops watching the file.
func (f *FileService) Unsubscribe() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handler == nil {
		return nil
	}

	f.handler = nil
	close(f.done)
	err := f.watcher.Close()
	f.watcher = nil
	return err
}
