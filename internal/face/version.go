package face

import "fmt"

// Version selects one of the three watch face revisions.
type Version int

const (
	// V1 shows a fixed "00:00" and subscribes to nothing.
	V1 Version = 1
	// V2 ticks every minute and shows today's step count.
	V2 Version = 2
	// V3 ticks every minute and ignores health data.
	V3 Version = 3
)

// ParseVersion validates a configured version number.
func ParseVersion(n int) (Version, error) {
	v := Version(n)
	switch v {
	case V1, V2, V3:
		return v, nil
	}
	return 0, fmt.Errorf("unknown watch face version %d", n)
}

// String returns "v1", "v2" or "v3".
func (v Version) String() string {
	return fmt.Sprintf("v%d", int(v))
}

// HasStepLabel reports whether the window carries a step label.
func (v Version) HasStepLabel() bool {
	return v == V2 || v == V3
}

// TicksEveryMinute reports whether the minute timer is used.
func (v Version) TicksEveryMinute() bool {
	return v == V2 || v == V3
}

// ShowsSteps reports whether step data is queried and displayed.
func (v Version) ShowsSteps() bool {
	return v == V2
}
