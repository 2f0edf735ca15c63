package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/watchface/internal/health"
)

// minuteTickMsg is delivered on every wall-clock minute boundary.
type minuteTickMsg time.Time

// healthEventMsg carries one health event into the event loop.
type healthEventMsg health.Event

// Model is the BubbleTea model hosting the watch face window.
type Model struct {
	app *App

	keys     KeyMap
	help     help.Model
	showHelp bool

	width  int
	height int
	ready  bool
}

// New creates a model for a started app.
func New(app *App, showHelp bool) Model {
	return Model{
		app:      app,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		showHelp: showHelp,
	}
}

// Init schedules the subscriptions the bridge registered.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.app.Bridge().TicksEnabled() {
		cmds = append(cmds, waitForMinute())
	}
	if m.app.Bridge().Subscribed() {
		cmds = append(cmds, m.waitForHealth)
	}
	return tea.Batch(cmds...)
}

// waitForMinute fires in sync with the system clock's minute boundary.
func waitForMinute() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return minuteTickMsg(t)
	})
}

// waitForHealth blocks until the bridge queues a health event.
func (m Model) waitForHealth() tea.Msg {
	ev, ok := <-m.app.Bridge().Events()
	if !ok {
		return nil
	}
	return healthEventMsg(ev)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		return m, nil

	case minuteTickMsg:
		m.app.Bridge().OnMinuteTick(time.Time(msg))
		return m, waitForMinute()

	case healthEventMsg:
		m.app.Bridge().OnHealthEvent(health.Event(msg))
		return m, m.waitForHealth
	}

	return m, nil
}

// View renders the window inside a bezel, centered in the terminal.
func (m Model) View() string {
	bezel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8"))

	s := bezel.Render(m.app.Window().Render())
	if m.showHelp {
		s = lipgloss.JoinVertical(lipgloss.Center, s, m.help.View(m.keys))
	}

	if !m.ready {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

// RunOptions configures the TUI.
type RunOptions struct {
	App      *App
	ShowHelp bool
}

// Run starts the app, blocks in the BubbleTea event loop, and shuts the app
// down when the program exits.
func Run(opts RunOptions) error {
	app := opts.App

	if err := app.Start(); err != nil {
		return err
	}

	p := tea.NewProgram(New(app, opts.ShowHelp), tea.WithAltScreen())
	_, err := p.Run()

	if serr := app.Shutdown(); serr != nil {
		app.logger.Warn("shutdown failed", "error", serr)
		if err == nil {
			err = serr
		}
	}

	return err
}
