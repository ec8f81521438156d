// Package period resolves review period presets into concrete intervals.
package period

import (
	"fmt"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// CustomRange carries the explicit bounds of a custom period. Zero
// bounds count as missing.
type CustomRange struct {
	Start time.Time
	End   time.Time
}

// Resolve turns a preset (plus optional custom range) and the current
// instant into a concrete ReviewPeriod in the given location.
func Resolve(preset models.Preset, custom *CustomRange, now time.Time, loc *time.Location) (models.ReviewPeriod, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	var start, end time.Time
	switch preset {
	case models.PresetCurrentWeek:
		start = WeekStart(now, loc)
		end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	case models.PresetCurrentMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	case models.PresetLast7Days:
		start, end = now.AddDate(0, 0, -7), now
	case models.PresetLast30Days:
		start, end = now.AddDate(0, 0, -30), now
	case models.PresetCustom:
		if custom == nil || custom.Start.IsZero() || custom.End.IsZero() {
			return models.ReviewPeriod{}, fmt.Errorf("period: custom range requires both bounds: %w", apperr.ErrInvalidPeriod)
		}
		if custom.Start.After(custom.End) {
			return models.ReviewPeriod{}, fmt.Errorf("period: start after end: %w", apperr.ErrInvalidPeriod)
		}
		start, end = custom.Start.In(loc), custom.End.In(loc)
	default:
		return models.ReviewPeriod{}, fmt.Errorf("period: unknown preset %q: %w", preset, apperr.ErrInvalidPeriod)
	}

	return models.ReviewPeriod{
		Start:  start,
		End:    end,
		Label:  Label(start, end),
		Preset: preset,
	}, nil
}

// WeekStart returns Monday 00:00:00 of the week containing t, in loc.
// The renderer reuses this so the frontmatter week boundary always
// agrees with the resolver's.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -offset)
}

// Label formats a human-readable description of the interval, e.g.
// "Mar 3 – Mar 9, 2025".
func Label(start, end time.Time) string {
	switch {
	case start.Year() != end.Year():
		return fmt.Sprintf("%s – %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	default:
		return fmt.Sprintf("%s – %s, %d", start.Format("Jan 2"), end.Format("Jan 2"), end.Year())
	}
}

// ParseCustomISO builds a CustomRange from ISO dates (2006-01-02)
// interpreted in loc; the end bound is inclusive through end of day.
func ParseCustomISO(startISO, endISO string, loc *time.Location) (*CustomRange, error) {
	if startISO == "" || endISO == "" {
		return nil, fmt.Errorf("period: custom range requires both dates: %w", apperr.ErrInvalidPeriod)
	}
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation("2006-01-02", startISO, loc)
	if err != nil {
		return nil, fmt.Errorf("period: bad start date %q: %w", startISO, apperr.ErrInvalidPeriod)
	}
	end, err := time.ParseInLocation("2006-01-02", endISO, loc)
	if err != nil {
		return nil, fmt.Errorf("period: bad end date %q: %w", endISO, apperr.ErrInvalidPeriod)
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &CustomRange{Start: start, End: end}, nil
}
