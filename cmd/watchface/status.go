package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/watchface/internal/clock"
	"github.com/jmylchreest/watchface/internal/health"
	"github.com/jmylchreest/watchface/internal/tui"
)

var statusOpts struct {
	format string
	render bool
}

// FaceStatus is a one-shot snapshot of the face.
type FaceStatus struct {
	Version       string `json:"version" yaml:"version"`
	Time          string `json:"time" yaml:"time"`
	Steps         string `json:"steps,omitempty" yaml:"steps,omitempty"`
	Clock         string `json:"clock" yaml:"clock"`
	HealthSource  string `json:"health_source" yaml:"health_source"`
	Accessibility string `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`
	LastSample    string `json:"last_sample,omitempty" yaml:"last_sample,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a snapshot of the watch face",
	Long: `Start the face without a terminal UI, deliver one minute tick, print the
label contents, and shut down.

Formats:
  text   one field per line (default)
  json   a single JSON object
  yaml   a YAML document

With --render the composited window is printed instead.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusOpts.format, "format", "text",
		"Output format (text, json, yaml)")
	statusCmd.Flags().BoolVar(&statusOpts.render, "render", false,
		"Print the rendered window")
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc := openHealth(cfg)
	defer health.Close(svc)

	app, err := newApp(cfg, svc)
	if err != nil {
		return err
	}

	if err := app.Start(); err != nil {
		return err
	}
	app.Bridge().OnMinuteTick(time.Now())

	status := snapshot(app, svc, clock.Resolve24Hour(cfg.Clock.Format), time.Now())
	rendered := app.Window().Canvas().String()

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown failed", "error", err)
	}

	if statusOpts.render {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	}
	return writeStatus(cmd.OutOrStdout(), status, statusOpts.format)
}

// sampleTimer is implemented by sources that know when data last arrived.
type sampleTimer interface {
	LastSample() (time.Time, bool)
}

// snapshot collects the face state of a started app.
func snapshot(app *tui.App, svc health.Service, use24h bool, now time.Time) FaceStatus {
	c := app.Controller()

	status := FaceStatus{
		Version:      c.Version().String(),
		Time:         c.TimeText(),
		Steps:        c.StepText(),
		Clock:        clockName(use24h),
		HealthSource: "none",
	}

	if svc == nil {
		return status
	}

	status.HealthSource = svc.Name()
	status.Accessibility = svc.Accessible(health.MetricStepCount, health.StartOfToday(now), now).String()
	if st, ok := svc.(sampleTimer); ok {
		if at, ok := st.LastSample(); ok {
			status.LastSample = humanize.Time(at)
		}
	}
	return status
}

func clockName(use24h bool) string {
	if use24h {
		return "24h"
	}
	return "12h"
}

// writeStatus encodes the status in the requested format.
func writeStatus(w io.Writer, status FaceStatus, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(status)
	case "text", "":
		fmt.Fprintf(w, "version:       %s\n", status.Version)
		fmt.Fprintf(w, "time:          %s\n", status.Time)
		if status.Steps != "" {
			fmt.Fprintf(w, "steps:         %s\n", status.Steps)
		}
		fmt.Fprintf(w, "clock:         %s\n", status.Clock)
		fmt.Fprintf(w, "health source: %s\n", status.HealthSource)
		if status.Accessibility != "" {
			fmt.Fprintf(w, "accessibility: %s\n", status.Accessibility)
		}
		if status.LastSample != "" {
			fmt.Fprintf(w, "last sample:   %s\n", status.LastSample)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
