package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Well-known preference keys.
const (
	// PreferenceQuietHours holds a "HH:MM-HH:MM" window during which
	// audio delivery is suppressed. Empty disables suppression.
	PreferenceQuietHours = "quiet_hours"

	// PreferenceWakeWord overrides the configured wake word.
	PreferenceWakeWord = "wake_word"
)

// Preference is one stored key/value setting.
type Preference struct {
	Key       string
	Value     string
	UpdatedTs int64
}

// FindPreference specifies the conditions for finding preferences.
type FindPreference struct {
	Key *string
}

// UpsertPreference specifies the data for upserting a preference.
type UpsertPreference struct {
	Key   string
	Value string
}

// UsageStat is a per-day counter for one command or interaction kind.
type UsageStat struct {
	Name  string
	Day   string
	Count int64
}

// FindUsage specifies the conditions for listing usage counters.
type FindUsage struct {
	Name     *string
	SinceDay *string
}

// QuietWindow is a daily time window, possibly crossing midnight.
type QuietWindow struct {
	StartMinute int
	EndMinute   int
}

// ParseQuietWindow parses "HH:MM-HH:MM". Start and end equal means an
// empty window.
func ParseQuietWindow(value string) (QuietWindow, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return QuietWindow{}, errors.Errorf("expected HH:MM-HH:MM, got %q", value)
	}
	start, err := parseMinuteOfDay(strings.TrimSpace(parts[0]))
	if err != nil {
		return QuietWindow{}, err
	}
	end, err := parseMinuteOfDay(strings.TrimSpace(parts[1]))
	if err != nil {
		return QuietWindow{}, err
	}
	return QuietWindow{StartMinute: start, EndMinute: end}, nil
}

func parseMinuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether now falls inside the window. A window whose
// start is after its end spans midnight.
func (w QuietWindow) Contains(now time.Time) bool {
	minute := now.Hour()*60 + now.Minute()
	if w.StartMinute == w.EndMinute {
		return false
	}
	if w.StartMinute < w.EndMinute {
		return minute >= w.StartMinute && minute < w.EndMinute
	}
	return minute >= w.StartMinute || minute < w.EndMinute
}

func (w QuietWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d",
		w.StartMinute/60, w.StartMinute%60, w.EndMinute/60, w.EndMinute%60)
}
