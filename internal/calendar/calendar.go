// Package calendar computes local-day and week window boundaries for a
// configured timezone. Quota windows are calendar ranges in the user's
// local time, while completions are stored as UTC instants, so every
// boundary here is converted back to UTC before it is compared against
// stored timestamps.
package calendar

import (
	"time"
)

const (
	// DefaultTimezone matches the original deployment region.
	DefaultTimezone = "America/Sao_Paulo"

	// DateFormat is the key format used for per-day buckets.
	DateFormat = "2006-01-02"
)

// Windows derives day and week boundaries in a fixed location. The zero
// value is not usable; construct with New.
type Windows struct {
	loc       *time.Location
	weekStart time.Weekday
}

// New returns a Windows for the given location and week start day.
// Passing a nil location defaults to UTC.
func New(loc *time.Location, weekStart time.Weekday) Windows {
	if loc == nil {
		loc = time.UTC
	}
	return Windows{loc: loc, weekStart: weekStart}
}

// Default returns ISO-week (Monday start) windows in DefaultTimezone.
// If the timezone database is unavailable it falls back to the fixed
// UTC-3 offset the region observes.
func Default() Windows {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.FixedZone("-03", -3*60*60)
	}
	return New(loc, time.Monday)
}

// Location returns the configured location.
func (w Windows) Location() *time.Location {
	return w.loc
}

// DayWindow returns the half-open UTC range [start, end) covering the
// local calendar day that contains t.
func (w Windows) DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(w.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, w.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// WeekWindow returns the half-open UTC range [start, end) covering the
// local week that contains t. With a Monday week start this is the ISO
// week: Monday 00:00:00 through the following Monday 00:00:00.
func (w Windows) WeekWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(w.loc)
	back := int(local.Weekday() - w.weekStart)
	if back < 0 {
		back += 7
	}
	day := local.AddDate(0, 0, -back)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, w.loc)
	return start.UTC(), start.AddDate(0, 0, 7).UTC()
}

// LocalDate returns t's calendar date in the configured location,
// formatted as YYYY-MM-DD. Summary buckets key on this, never on the
// UTC date, so a completion at 23:30 local lands on the local day even
// though its UTC instant is past midnight.
func (w Windows) LocalDate(t time.Time) string {
	return t.In(w.loc).Format(DateFormat)
}
