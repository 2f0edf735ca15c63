package tui

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/watchface/internal/clock"
	"github.com/jmylchreest/watchface/internal/face"
	"github.com/jmylchreest/watchface/internal/health"
)

func newTestApp(t *testing.T, v face.Version, svc health.Service, clk *clock.Fixed) (*App, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	app := NewApp(AppOptions{
		Version: v,
		Clock:   clk,
		Health:  svc,
		Logger:  slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	return app, &buf
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestApp_Lifecycle(t *testing.T) {
	app, _ := newTestApp(t, face.V2, health.NewStaticService(0), &clock.Fixed{At: time.Now()})
	assert.Equal(t, StateUninitialized, app.State())

	require.NoError(t, app.Start())
	assert.Equal(t, StateRunning, app.State())
	assert.True(t, app.Window().Loaded())
	assert.True(t, app.Controller().Loaded())

	require.NoError(t, app.Shutdown())
	assert.Equal(t, StateTerminated, app.State())
	assert.False(t, app.Window().Loaded())
	assert.False(t, app.Controller().Loaded())
	assert.Empty(t, app.Window().RootLayer().Children())
	assert.False(t, app.Bridge().Subscribed())
}

func TestApp_InvalidTransitions(t *testing.T) {
	app, _ := newTestApp(t, face.V1, nil, &clock.Fixed{})

	assert.ErrorIs(t, app.Shutdown(), ErrInvalidTransition)

	require.NoError(t, app.Start())
	assert.ErrorIs(t, app.Start(), ErrInvalidTransition)

	require.NoError(t, app.Shutdown())
	assert.ErrorIs(t, app.Shutdown(), ErrInvalidTransition)
	assert.ErrorIs(t, app.Start(), ErrInvalidTransition)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "window_loaded", StateWindowLoaded.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "window_unloaded", StateWindowUnloaded.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestModel_V1NeverChanges(t *testing.T) {
	clk := &clock.Fixed{At: time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local), Use24h: true}
	app, _ := newTestApp(t, face.V1, nil, clk)
	require.NoError(t, app.Start())

	m := New(app, false)
	assert.Nil(t, m.Init())
	assert.Equal(t, "00:00", app.Controller().TimeText())

	for i := 0; i < 90; i++ {
		clk.At = clk.At.Add(time.Minute)
		m, _ = update(t, m, minuteTickMsg(clk.At))
	}
	assert.Equal(t, "00:00", app.Controller().TimeText())
}

func TestModel_V2TickAndHealth(t *testing.T) {
	clk := &clock.Fixed{At: time.Date(2026, 10, 19, 13, 7, 0, 0, time.Local), Use24h: false}
	svc := health.NewStaticService(8421)
	app, _ := newTestApp(t, face.V2, svc, clk)
	require.NoError(t, app.Start())

	// Start shows the real time straight away
	assert.Equal(t, "01:07", app.Controller().TimeText())
	assert.Equal(t, "steps  ", app.Controller().StepText())

	m := New(app, false)
	assert.NotNil(t, m.Init())

	clk.At = clk.At.Add(time.Minute)
	m, cmd := update(t, m, minuteTickMsg(clk.At))
	assert.NotNil(t, cmd)
	assert.Equal(t, "01:08", app.Controller().TimeText())
	assert.Equal(t, "steps 8421", app.Controller().StepText())

	svc.SetSteps(9000)
	require.True(t, svc.Emit(health.EventMovementUpdate))
	msg := m.waitForHealth()
	m, cmd = update(t, m, msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, "steps 9000", app.Controller().StepText())

	svc.SetSteps(9100)
	m, _ = update(t, m, healthEventMsg(health.NewEvent(health.EventSleepUpdate)))
	m, _ = update(t, m, healthEventMsg(health.NewEvent(health.EventSignificantUpdate)))
	assert.Equal(t, "steps 9000", app.Controller().StepText())
}

func TestModel_V3IgnoresHealth(t *testing.T) {
	clk := &clock.Fixed{At: time.Date(2026, 10, 19, 13, 7, 0, 0, time.Local), Use24h: true}
	svc := health.NewStaticService(8421)
	app, _ := newTestApp(t, face.V3, svc, clk)
	require.NoError(t, app.Start())

	m := New(app, false)
	assert.False(t, svc.Emit(health.EventMovementUpdate))

	for _, kind := range []health.EventKind{
		health.EventSignificantUpdate,
		health.EventMovementUpdate,
		health.EventSleepUpdate,
	} {
		m, _ = update(t, m, healthEventMsg(health.NewEvent(kind)))
	}

	assert.Equal(t, "13:07", app.Controller().TimeText())
	assert.Equal(t, "steps  ", app.Controller().StepText())

	clk.At = clk.At.Add(time.Minute)
	update(t, m, minuteTickMsg(clk.At))
	assert.Equal(t, "13:08", app.Controller().TimeText())
	assert.Equal(t, "steps  ", app.Controller().StepText())
}

func TestModel_V2SubscriptionFailureKeepsTime(t *testing.T) {
	clk := &clock.Fixed{At: time.Date(2026, 10, 19, 13, 7, 0, 0, time.Local), Use24h: true}
	svc := health.NewStaticService(50)
	svc.FailSubscribe(errors.New("unreachable"))
	app, buf := newTestApp(t, face.V2, svc, clk)
	require.NoError(t, app.Start())
	assert.Contains(t, buf.String(), "health subscription failed")

	m := New(app, false)
	clk.At = clk.At.Add(time.Minute)
	update(t, m, minuteTickMsg(clk.At))

	assert.Equal(t, "13:08", app.Controller().TimeText())
	assert.Equal(t, "steps 50", app.Controller().StepText())
}

func TestModel_Quit(t *testing.T) {
	app, _ := newTestApp(t, face.V1, nil, &clock.Fixed{})
	require.NoError(t, app.Start())

	m := New(app, false)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
}

func TestModel_View(t *testing.T) {
	clk := &clock.Fixed{At: time.Date(2026, 10, 19, 13, 7, 0, 0, time.Local), Use24h: true}
	app, _ := newTestApp(t, face.V2, health.NewStaticService(8421), clk)
	require.NoError(t, app.Start())
	app.Controller().UpdateSteps()

	m := New(app, true)
	view := m.View()
	assert.Contains(t, view, "steps 8421")
	assert.Contains(t, view, "quit")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	assert.True(t, m.ready)
	assert.Len(t, strings.Split(m.View(), "\n"), 30)
}
