package services

import (
	"time"

	"github.com/dmitrijs2005/eventaura/internal/timex"
)

// DateWindow names a calendar range relative to the current time.
type DateWindow string

const (
	WindowToday        DateWindow = "today"
	WindowCurrentWeek  DateWindow = "currentWeek"
	WindowLastWeek     DateWindow = "lastWeek"
	WindowCurrentMonth DateWindow = "currentMonth"
	WindowLastMonth    DateWindow = "lastMonth"
)

// Bounds returns the inclusive [from, to] range of w around now, in now's
// location. Weeks start on Sunday. ok is false for unknown windows, which
// apply no constraint.
func (w DateWindow) Bounds(now time.Time) (from, to time.Time, ok bool) {
	switch w {
	case WindowToday:
		return timex.StartOfDay(now), timex.EndOfDay(now), true
	case WindowCurrentWeek:
		return timex.StartOfWeek(now), timex.EndOfWeek(now), true
	case WindowLastWeek:
		prev := now.AddDate(0, 0, -7)
		return timex.StartOfWeek(prev), timex.EndOfWeek(prev), true
	case WindowCurrentMonth:
		return timex.StartOfMonth(now), timex.EndOfMonth(now), true
	case WindowLastMonth:
		prev := timex.StartOfMonth(now).AddDate(0, -1, 0)
		return timex.StartOfMonth(prev), timex.EndOfMonth(prev), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
