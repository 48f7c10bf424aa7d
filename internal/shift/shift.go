// Package shift resolves which shift date a moment in time belongs to
// and when a task on that shift falls due. All arithmetic is pinned to
// the site's reference zone, Europe/London, no matter where the server
// runs; that is a business rule, not a convenience.
package shift

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the shift-date format used across the sheets.
const DayLayout = "2006-01-02"

// DueLayout is the clock format task catalogs use, e.g. "8.00AM".
const DueLayout = "3.04PM"

// Night shifts roll over to the next calendar day at 07:00: before
// then the worker is still finishing yesterday's shift.
const boundaryHour = 7

var london = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("shift: load %s: %v", name, err))
	}
	return loc
}

// Location returns the reference zone.
func Location() *time.Location { return london }

// NightShift reports whether a role code denotes a night shift.
func NightShift(roleCode string) bool {
	return strings.HasSuffix(roleCode, "-NS")
}

// Date resolves the shift date for a role at the given instant: for a
// night shift before 07:00 London time that is yesterday, otherwise
// today. The result is midnight London time on the shift date.
func Date(roleCode string, now time.Time) time.Time {
	now = now.In(london)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, london)
	if NightShift(roleCode) && now.Hour() < boundaryHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// DueAt combines a catalog due time with a shift date. On night shifts
// a due time in [00:00, 07:00) belongs to the morning after the shift
// date; everything else lands on the shift date itself.
func DueAt(roleCode string, shiftDate time.Time, dueTime string) (time.Time, error) {
	clock, err := time.Parse(DueLayout, dueTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("shift: bad due time %q: %w", dueTime, err)
	}
	day := shiftDate.In(london)
	if NightShift(roleCode) && clock.Hour() < boundaryHour {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, london), nil
}

// Clock24 rewrites a catalog due time in 24-hour form for display,
// returning the input unchanged if it does not parse.
func Clock24(dueTime string) string {
	clock, err := time.Parse(DueLayout, dueTime)
	if err != nil {
		return dueTime
	}
	return clock.Format("15:04")
}
