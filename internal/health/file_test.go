package health

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeSamples(t *testing.T, path string, sf SampleFile) {
	t.Helper()
	data, err := yaml.Marshal(sf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func newTestFileService(t *testing.T, now time.Time) (*FileService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "health.yaml")
	f := NewFileService(path, nil)
	f.now = func() time.Time { return now }
	return f, path
}

func TestFileService_MissingFile(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
	f, _ := newTestFileService(t, now)

	assert.Equal(t, AccessibilityNotSupported, f.Accessible(MetricStepCount, StartOfToday(now), now))
	assert.Equal(t, 0, f.SumToday(MetricStepCount))
	_, ok := f.LastSample()
	assert.False(t, ok)
}

func TestFileService_SumToday(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
	f, path := newTestFileService(t, now)

	writeSamples(t, path, SampleFile{Samples: []Sample{
		{Time: now.Add(-13 * time.Hour), Steps: 5000}, // yesterday
		{Time: now.Add(-4 * time.Hour), Steps: 8000},
		{Time: now.Add(-1 * time.Hour), Steps: 421},
		{Time: now, Steps: 999}, // end of range is exclusive
	}})

	assert.True(t, f.Accessible(MetricStepCount, StartOfToday(now), now).Available())
	assert.Equal(t, 8421, f.SumToday(MetricStepCount))

	last, ok := f.LastSample()
	require.True(t, ok)
	assert.True(t, last.Equal(now))
}

func TestFileService_PermissionDenied(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
	f, path := newTestFileService(t, now)

	denied := false
	writeSamples(t, path, SampleFile{Permission: &denied})

	assert.Equal(t, AccessibilityNoPermission, f.Accessible(MetricStepCount, StartOfToday(now), now))
}

func TestFileService_InvalidYAML(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
	f, path := newTestFileService(t, now)

	require.NoError(t, os.WriteFile(path, []byte("samples: [unterminated"), 0644))
	assert.Equal(t, AccessibilityNotSupported, f.Accessible(MetricStepCount, StartOfToday(now), now))
}

func TestFileService_EmptyRange(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local)
	f, path := newTestFileService(t, now)
	writeSamples(t, path, SampleFile{})

	assert.Equal(t, AccessibilityNotSupported, f.Accessible(MetricStepCount, now, now))
}

func TestFileService_WatchEmitsEvents(t *testing.T) {
	now := time.Now()
	f, path := newTestFileService(t, now)
	writeSamples(t, path, SampleFile{Samples: []Sample{{Time: now.Add(-time.Second), Steps: 10}}})

	events := make(chan Event, 8)
	require.NoError(t, f.Subscribe(func(ev Event) { events <- ev }))
	defer f.Unsubscribe()

	assert.ErrorIs(t, f.Subscribe(func(Event) {}), ErrAlreadySubscribed)

	writeSamples(t, path, SampleFile{Samples: []Sample{{Time: now.Add(-time.Second), Steps: 20}}})

	select {
	case ev := <-events:
		assert.Equal(t, EventMovementUpdate, ev.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no health event after file change")
	}
}

func TestFileService_UnsubscribeTwice(t *testing.T) {
	f, path := newTestFileService(t, time.Now())
	writeSamples(t, path, SampleFile{})

	require.NoError(t, f.Subscribe(func(Event) {}))
	require.NoError(t, f.Unsubscribe())
	require.NoError(t, f.Unsubscribe())
}
