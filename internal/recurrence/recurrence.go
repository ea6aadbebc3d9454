// Package recurrence decides which calendar days a habit is due on. The
// evaluator is pure: no I/O, deterministic for a given (habit, day) pair,
// so the due-list endpoint and the reconciler can both call it freely.
package recurrence

import (
	"time"

	"github.com/tallyhq/tally/pkg/datekey"
	"github.com/tallyhq/tally/pkg/habit"
)

// IsDue reports whether day is an occurrence of h. The habit must already
// have passed habit.Validate; an interval below 1 is treated as 1 rather
// than panicking.
func IsDue(h habit.Habit, day datekey.DateKey) bool {
	if day.Before(h.StartDate) {
		return false
	}
	if !h.EndDate.IsZero() && day.After(h.EndDate) {
		return false
	}

	switch h.Frequency {
	case habit.Daily:
		return true
	case habit.Weekly:
		return day.Weekday() == h.StartDate.Weekday()
	case habit.Monthly:
		return day.Day == monthlyDueDay(h.StartDate.Day, day.Year, day.Month)
	case habit.RepeatEveryNDays:
		n := h.NDays
		if n < 1 {
			n = 1
		}
		return day.Sub(h.StartDate)%n == 0
	default:
		return false
	}
}

// monthlyDueDay clamps the habit's start day-of-month to the length of the
// target month, so a habit started on the 31st is due on Feb 28/29 rather
// than skipping short months entirely.
func monthlyDueDay(startDay, year int, month time.Month) int {
	last := datekey.DaysInMonth(year, month)
	if startDay > last {
		return last
	}
	return startDay
}

// Occurrences enumerates every due day of h in the closed range [from, to].
// Returns nil when the range is empty or entirely outside the habit's
// active window.
func Occurrences(h habit.Habit, from, to datekey.DateKey) []datekey.DateKey {
	if to.Before(from) {
		return nil
	}
	var out []datekey.DateKey
	for day := from; !day.After(to); day = day.AddDays(1) {
		if IsDue(h, day) {
			out = append(out, day)
		}
	}
	return out
}
