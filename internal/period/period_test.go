package period

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// Wednesday, March 5, 2025, 14:30 UTC.
var wednesday = time.Date(2025, 3, 5, 14, 30, 0, 0, time.UTC)

func TestResolve_CurrentWeek(t *testing.T) {
	p, err := Resolve(models.PresetCurrentWeek, nil, wednesday, time.UTC)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	if !p.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", p.Start, wantStart)
	}
	if p.Start.Weekday() != time.Monday {
		t.Errorf("start weekday = %v, want Monday", p.Start.Weekday())
	}
	// End is the instant immediately before next Monday 00:00:00.
	nextMonday := wantStart.AddDate(0, 0, 7)
	if !p.End.Before(nextMonday) || p.End.Before(wantStart.AddDate(0, 0, 6)) {
		t.Errorf("end = %v, want just before %v", p.End, nextMonday)
	}
	if p.Label != "Mar 3 – Mar 9, 2025" {
		t.Errorf("label = %q", p.Label)
	}
}

func TestResolve_CurrentWeek_MondayIsItsOwnStart(t *testing.T) {
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	p, err := Resolve(models.PresetCurrentWeek, nil, monday, time.UTC)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !p.Start.Equal(monday) {
		t.Errorf("start = %v, want %v", p.Start, monday)
	}
}

func TestResolve_CurrentMonth(t *testing.T) {
	p, err := Resolve(models.PresetCurrentMonth, nil, wednesday, time.UTC)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !p.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", p.Start, wantStart)
	}
	if !p.End.Before(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v crosses into April", p.End)
	}
}

func TestResolve_RollingWindows(t *testing.T) {
	for _, tc := range []struct {
		preset models.Preset
		days   int
	}{
		{models.PresetLast7Days, 7},
		{models.PresetLast30Days, 30},
	} {
		p, err := Resolve(tc.preset, nil, wednesday, time.UTC)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.preset, err)
		}
		if !p.End.Equal(wednesday) {
			t.Errorf("%s: end = %v, want now", tc.preset, p.End)
		}
		if !p.Start.Equal(wednesday.AddDate(0, 0, -tc.days)) {
			t.Errorf("%s: start = %v", tc.preset, p.Start)
		}
	}
}

func TestResolve_AllPresetsOrdered(t *testing.T) {
	custom := &CustomRange{
		Start: wednesday.AddDate(0, 0, -3),
		End:   wednesday,
	}
	for _, preset := range []models.Preset{
		models.PresetCurrentWeek,
		models.PresetCurrentMonth,
		models.PresetLast7Days,
		models.PresetLast30Days,
		models.PresetCustom,
	} {
		p, err := Resolve(preset, custom, wednesday, time.UTC)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", preset, err)
		}
		if p.Start.After(p.End) {
			t.Errorf("%s: start %v after end %v", preset, p.Start, p.End)
		}
		if p.Preset != preset {
			t.Errorf("%s: preset = %s", preset, p.Preset)
		}
	}
}

func TestResolve_CustomInvalid(t *testing.T) {
	cases := []*CustomRange{
		nil,
		{Start: wednesday}, // missing end
		{End: wednesday},   // missing start
		{Start: wednesday, End: wednesday.AddDate(0, 0, -1)},
	}
	for i, c := range cases {
		_, err := Resolve(models.PresetCustom, c, wednesday, time.UTC)
		if !errors.Is(err, apperr.ErrInvalidPeriod) {
			t.Errorf("case %d: err = %v, want ErrInvalidPeriod", i, err)
		}
	}
}

func TestResolve_UnknownPreset(t *testing.T) {
	_, err := Resolve(models.Preset("fortnight"), nil, wednesday, time.UTC)
	if !errors.Is(err, apperr.ErrInvalidPeriod) {
		t.Errorf("err = %v, want ErrInvalidPeriod", err)
	}
}

func TestWeekStart_TimezoneAware(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// Monday 01:00 UTC is still Sunday evening in New York.
	mondayUTC := time.Date(2025, 3, 3, 1, 0, 0, 0, time.UTC)
	ws := WeekStart(mondayUTC, loc)
	if ws.Weekday() != time.Monday {
		t.Errorf("weekday = %v, want Monday", ws.Weekday())
	}
	want := time.Date(2025, 2, 24, 0, 0, 0, 0, loc)
	if !ws.Equal(want) {
		t.Errorf("week start = %v, want %v", ws, want)
	}
}

func TestLabel_CrossYear(t *testing.T) {
	start := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := Label(start, end); got != "Dec 30, 2024 – Jan 5, 2025" {
		t.Errorf("label = %q", got)
	}
}

func TestParseCustomISO(t *testing.T) {
	r, err := ParseCustomISO("2025-03-01", "2025-03-09", time.UTC)
	if err != nil {
		t.Fatalf("ParseCustomISO: %v", err)
	}
	if r.Start.Day() != 1 || r.Start.Hour() != 0 {
		t.Errorf("start = %v", r.Start)
	}
	// End is inclusive through end of day.
	if r.End.Day() != 9 || r.End.Hour() != 23 {
		t.Errorf("end = %v", r.End)
	}

	if _, err := ParseCustomISO("", "2025-03-09", time.UTC); !errors.Is(err, apperr.ErrInvalidPeriod) {
		t.Errorf("missing start: err = %v", err)
	}
	if _, err := ParseCustomISO("not-a-date", "2025-03-09", time.UTC); !errors.Is(err, apperr.ErrInvalidPeriod) {
		t.Errorf("bad start: err = %v", err)
	}
}
