// Package datekey provides a date-only value used for recurrence matching
// and ledger lookups. Business logic never compares raw timestamps: every
// timestamp is truncated to a DateKey first, and day arithmetic is done on
// whole-day integers so daylight-saving shifts can't leak into it.
package datekey

import (
	"fmt"
	"time"
)

// DateKey identifies a single calendar day. The zero value is "no date",
// used for optional fields like a habit's end date.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

const layout = "2006-01-02"

// FromTime truncates a timestamp to its calendar date in the timestamp's
// location.
func FromTime(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{Year: y, Month: m, Day: d}
}

// Parse accepts an ISO date (YYYY-MM-DD) or a full RFC3339 timestamp,
// which it truncates. The store holds both forms for log dates.
func Parse(s string) (DateKey, error) {
	if len(s) > len(layout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return DateKey{}, fmt.Errorf("parse date %q: %w", s, err)
		}
		return FromTime(t), nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return DateKey{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for test fixtures and constants; it panics on error.
func MustParse(s string) DateKey {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d DateKey) String() string {
	return d.Time().Format(layout)
}

// Time returns the day at midnight UTC. Only used as an arithmetic anchor,
// never persisted.
func (d DateKey) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d DateKey) IsZero() bool {
	return d == DateKey{}
}

func (d DateKey) AddDays(n int) DateKey {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Sub returns the number of whole days from other to d. Positive when d is
// later than other.
func (d DateKey) Sub(other DateKey) int {
	return int(d.Time().Sub(other.Time()) / (24 * time.Hour))
}

func (d DateKey) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d DateKey) Before(other DateKey) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d DateKey) After(other DateKey) bool {
	return other.Before(d)
}

// Min returns the earlier of the two days.
func Min(a, b DateKey) DateKey {
	if b.Before(a) {
		return b
	}
	return a
}

// DaysInMonth returns the length of the given month, accounting for leap
// years.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalText and UnmarshalText keep the wire and store form as the ISO
// string rather than the struct fields. The zero value round-trips as an
// empty string so optional dates stay optional in JSON.
func (d DateKey) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, nil
	}
	return []byte(d.String()), nil
}

func (d *DateKey) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = DateKey{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
