// Package face implements the watch face display controller. It owns the
// window and its two text labels, builds them when the window loads, releases
// them when it unloads, and rewrites their text on request.
package face

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/watchface/internal/clock"
	"github.com/jmylchreest/watchface/internal/health"
	"github.com/jmylchreest/watchface/internal/ui"
)

// Placeholder label text shown until the first update.
const (
	TimePlaceholder  = "00:00"
	StepsPlaceholder = "steps  "
)

// Layout, in cells of the watch display.
const (
	timeLabelY     = 5
	stepLabelX     = 2
	stepLabelY     = 2
	timeLabelColor = lipgloss.Color("15")
	stepLabelColor = lipgloss.Color("8")
)

// Options configures a Controller.
type Options struct {
	Version Version
	Clock   clock.Clock
	Health  health.Service // nil when the host has no health capability
	Logger  *slog.Logger
}

// Controller is the display controller of one watch face window.
type Controller struct {
	version Version
	clock   clock.Clock
	health  health.Service
	logger  *slog.Logger

	window    *ui.Window
	timeLayer *ui.TextLayer
	stepLayer *ui.TextLayer
}

// New creates a controller and its window. The window's handlers call
// OnWindowLoad and OnWindowUnload.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewSystem("auto")
	}

	c := &Controller{
		version: opts.Version,
		clock:   clk,
		health:  opts.Health,
		logger:  logger,
	}

	c.window = ui.NewWindow(ui.DefaultBounds)
	c.window.SetHandlers(ui.WindowHandlers{
		Load:   c.OnWindowLoad,
		Unload: c.OnWindowUnload,
	})

	return c
}

// Window returns the controller's window.
func (c *Controller) Window() *ui.Window { return c.window }

// Version returns the face version.
func (c *Controller) Version() Version { return c.version }

// Loaded reports whether the labels currently exist.
func (c *Controller) Loaded() bool { return c.timeLayer != nil }

// TimeText returns the time label text, or "" when not loaded.
func (c *Controller) TimeText() string {
	if c.timeLayer == nil {
		return ""
	}
	return c.timeLayer.Text()
}

// StepText returns the step label text, or "" when there is no step label.
func (c *Controller) StepText() string {
	if c.stepLayer == nil {
		return ""
	}
	return c.stepLayer.Text()
}

// OnWindowLoad creates the labels and attaches them to the root layer.
func (c *Controller) OnWindowLoad(w *ui.Window) {
	if c.timeLayer != nil {
		c.logger.Warn("window loaded twice, keeping existing labels")
		return
	}

	root := w.RootLayer()
	bounds := root.Bounds()

	c.timeLayer = ui.NewTextLayer(ui.Rect{X: 0, Y: timeLabelY, W: bounds.W, H: ui.FontLargeBold.Height()})
	c.timeLayer.SetFont(ui.FontLargeBold)
	c.timeLayer.SetAlignment(ui.AlignCenter)
	c.timeLayer.SetTextColor(timeLabelColor)
	c.timeLayer.SetText(TimePlaceholder)

	if c.version.HasStepLabel() {
		c.stepLayer = ui.NewTextLayer(ui.Rect{X: stepLabelX, Y: stepLabelY, W: bounds.W - stepLabelX, H: ui.FontSmall.Height()})
		c.stepLayer.SetFont(ui.FontSmall)
		c.stepLayer.SetAlignment(ui.AlignLeft)
		c.stepLayer.SetTextColor(stepLabelColor)
		c.stepLayer.SetText(StepsPlaceholder)
		root.AddChild(c.stepLayer)
	}

	root.AddChild(c.timeLayer)

	c.logger.Debug("window loaded", "version", c.version.String(), "step_label", c.stepLayer != nil)
}

// OnWindowUnload detaches and destroys the labels created by OnWindowLoad.
func (c *Controller) OnWindowUnload(w *ui.Window) {
	if c.timeLayer == nil {
		c.logger.Debug("window unload without labels, nothing to release")
		return
	}

	root := w.RootLayer()

	root.RemoveChild(c.timeLayer)
	c.timeLayer.Destroy()
	c.timeLayer = nil

	if c.stepLayer != nil {
		root.RemoveChild(c.stepLayer)
		c.stepLayer.Destroy()
		c.stepLayer = nil
	}

	c.logger.Debug("window unloaded")
}

// UpdateTime writes the current wall-clock time to the time label.
func (c *Controller) UpdateTime() {
	if c.timeLayer == nil {
		return
	}
	text := boundedf(c.logger, "time", TimeBufferSize, "%s", clock.Format(c.clock.Now(), c.clock.Is24Hour()))
	c.timeLayer.SetText(text)
}

// UpdateSteps writes today's step count to the step label when the metric is
// accessible. Otherwise it logs and leaves the label as it was.
func (c *Controller) UpdateSteps() {
	if c.stepLayer == nil || !c.version.ShowsSteps() {
		return
	}
	if c.health == nil {
		c.logger.Debug("no health capability, step label unchanged")
		return
	}

	now := c.clock.Now()
	start := health.StartOfToday(now)
	mask := c.health.Accessible(health.MetricStepCount, start, now)
	if !mask.Available() {
		c.logger.Error("step data not available", "source", c.health.Name(), "mask", mask.String())
		return
	}

	steps := c.health.SumToday(health.MetricStepCount)
	c.stepLayer.SetText(boundedf(c.logger, "steps", StepsBufferSize, "steps %d", steps))
}
