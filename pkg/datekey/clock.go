package datekey

import "time"

// Clock supplies "today" to the parts of the engine that reason about the
// current date. Injected so reconciliation runs are deterministic in tests.
type Clock interface {
	Today() DateKey
}

// SystemClock reads the wall clock in local time.
type SystemClock struct{}

func (SystemClock) Today() DateKey {
	return FromTime(time.Now())
}

// FixedClock always reports the same day.
type FixedClock struct {
	Day DateKey
}

func (c FixedClock) Today() DateKey {
	return c.Day
}
