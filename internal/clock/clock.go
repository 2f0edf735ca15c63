// Package clock provides the wall clock and the host's 12/24-hour display setting.
package clock

import (
	"os"
	"strings"
	"time"

	"github.com/jmylchreest/watchface/internal/config"
)

// Layouts for the two display styles. The 12-hour layout has no AM/PM suffix.
const (
	Layout24h = "15:04"
	Layout12h = "03:04"
)

// Clock reports the current time and the display style.
type Clock interface {
	Now() time.Time
	Is24Hour() bool
}

// System is the wall clock with a fixed display style.
type System struct {
	use24h bool
}

// NewSystem creates a system clock using the configured format.
// "auto" resolves the style from the locale environment.
func NewSystem(format string) *System {
	return &System{use24h: Resolve24Hour(format)}
}

// Now returns the current local time.
func (s *System) Now() time.Time {
	return time.Now()
}

// Is24Hour reports whether the 24-hour style is active.
func (s *System) Is24Hour() bool {
	return s.use24h
}

// Fixed is a clock frozen at a given instant.
type Fixed struct {
	At     time.Time
	Use24h bool
}

// Now returns the frozen instant.
func (f *Fixed) Now() time.Time {
	return f.At
}

// Is24Hour reports the configured style.
func (f *Fixed) Is24Hour() bool {
	return f.Use24h
}

// Format renders t as "HH:MM" in the requested style.
func Format(t time.Time, use24h bool) string {
	if use24h {
		return t.Format(Layout24h)
	}
	return t.Format(Layout12h)
}

// twelveHourRegions lists territories whose conventional clock is 12-hour.
var twelveHourRegions = map[string]bool{
	"US": true,
	"CA": true,
	"AU": true,
	"NZ": true,
	"PH": true,
	"IN": true,
	"PK": true,
	"EG": true,
	"SA": true,
	"CO": true,
	"MX": true,
}

// Resolve24Hour maps a configured clock format to the 24-hour flag.
func Resolve24Hour(format string) bool {
	switch format {
	case config.Clock24h:
		return true
	case config.Clock12h:
		return false
	}
	return localeUses24Hour(localeFromEnv())
}

// localeFromEnv returns the effective LC_TIME locale following POSIX precedence.
func localeFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// localeUses24Hour inspects a locale such as "en_US.UTF-8".
func localeUses24Hour(locale string) bool {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return true
	}
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	_, region, ok := strings.Cut(locale, "_")
	if !ok {
		return true
	}
	return !twelveHourRegions[strings.ToUpper(region)]
}
