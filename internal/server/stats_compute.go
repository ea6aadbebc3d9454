package server

import (
	"slices"

	"github.com/tallyhq/tally/pkg/habit"
)

// computeSummary derives streak and point stats for a habit from its ledger
// rows. Streaks run over consecutive user-logged days with positive points;
// absence rows break streaks and count as missed days, but their penalties
// still flow into the point total.
func (s *Server) computeSummary(h *habit.Habit) (HabitSummary, error) {
	rows, err := s.store.QueryByRef(habit.HabitRef(h.ID))
	if err != nil {
		return HabitSummary{}, err
	}

	summary := HabitSummary{Name: h.Name}

	epoch := h.StartDate
	uniq := make(map[int]struct{}, len(rows))
	for _, c := range rows {
		summary.TotalPoints += c.Points
		if c.Absent {
			summary.DaysMissed++
			continue
		}
		summary.TotalDaysDone++
		if c.Points > 0 {
			uniq[c.Day.Sub(epoch)] = struct{}{}
		}
	}

	if len(uniq) == 0 {
		return summary, nil
	}

	days := make([]int, 0, len(uniq))
	for d := range uniq {
		days = append(days, d)
	}
	slices.Sort(days)
	slices.Reverse(days)

	today := s.clock.Today().Sub(epoch)

	streakOngoing := days[0] == today || days[0] == today-1
	longest := 1
	run := 1
	current := 0
	if streakOngoing {
		current = 1
	}

	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] == 1 {
			run++
			longest = max(longest, run)
			if streakOngoing {
				current++
			}
		} else {
			run = 1
			streakOngoing = false
		}
	}

	summary.CurrentStreak = current
	summary.LongestStreak = longest
	return summary, nil
}
