// Package growth turns the completion ledger into a cumulative point
// series for charting: filter by date range, running-sum in log order,
// then downsample to a fixed number of chart points.
package growth

import (
	"sort"

	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/datekey"
)

// RangeFilter selects how far back the series reaches.
type RangeFilter string

const (
	All         RangeFilter = "all"
	Today       RangeFilter = "today"
	LastWeek    RangeFilter = "last_week"
	LastMonth   RangeFilter = "last_month"
	Last365Days RangeFilter = "last_365_days"
)

// DefaultMaxPoints matches what a phone-width chart can label legibly.
const DefaultMaxPoints = 15

type Point struct {
	Day          datekey.DateKey `json:"day"`
	RunningTotal float64         `json:"running_total"`
}

// start returns the earliest day included by the filter, or a zero DateKey
// for All.
func (f RangeFilter) start(today datekey.DateKey) datekey.DateKey {
	switch f {
	case Today:
		return today
	case LastWeek:
		return today.AddDays(-7)
	case LastMonth:
		// one calendar month back, not a fixed 30 days
		return datekey.FromTime(today.Time().AddDate(0, -1, 0))
	case Last365Days:
		return today.AddDays(-365)
	default:
		return datekey.DateKey{}
	}
}

// Series builds the cumulative point series over every ledger row in range.
// When the series is longer than maxPoints it is bucketed evenly and the
// last row of each bucket kept; the first and last rows always survive so
// the chart endpoints are exact.
func Series(ledger storage.CompletionLedger, clock datekey.Clock, filter RangeFilter, maxPoints int) ([]Point, error) {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}

	rows, err := ledger.QueryAll()
	if err != nil {
		return nil, err
	}

	today := clock.Today()
	from := filter.start(today)
	var series []Point
	for _, c := range rows {
		if !from.IsZero() && c.Day.Before(from) {
			continue
		}
		series = append(series, Point{Day: c.Day, RunningTotal: c.Points})
	}
	if len(series) == 0 {
		return nil, nil
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Day.Before(series[j].Day)
	})

	var total float64
	for i := range series {
		total += series[i].RunningTotal
		series[i].RunningTotal = total
	}

	out := downsample(series, maxPoints)

	// pad a trailing gap with a flat point for today, so the chart's right
	// edge is always the current date
	if last := out[len(out)-1]; last.Day.Before(today) {
		out = append(out, Point{Day: today, RunningTotal: last.RunningTotal})
	}
	return out, nil
}

// downsample keeps at most maxPoints entries: the last row of each of
// maxPoints even buckets, plus the first row.
func downsample(series []Point, maxPoints int) []Point {
	if len(series) <= maxPoints {
		return series
	}

	out := []Point{series[0]}
	n := len(series)
	for b := 1; b <= maxPoints; b++ {
		// last index of bucket b, buckets sized as evenly as NTILE
		idx := b*n/maxPoints - 1
		p := series[idx]
		if out[len(out)-1].Day == p.Day && out[len(out)-1].RunningTotal == p.RunningTotal {
			continue
		}
		out = append(out, p)
	}
	return out
}
