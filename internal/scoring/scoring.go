// Package scoring computes the signed point value of a single completion
// from the habit's evaluation rule and the user-supplied raw value. Scoring
// is pure; persisting the result as a ledger row is the caller's job.
package scoring

import (
	"fmt"
	"strconv"

	"github.com/tallyhq/tally/pkg/habit"
)

// YesAnswer is the raw value a Yes_Or_No habit treats as done. Anything
// else earns the penalty.
const YesAnswer = "Yes"

// Score evaluates raw against h's rule and returns the signed points for
// one completion. For numeric habits raw must parse as a number. The habit
// must already have passed habit.Validate, which guarantees a positive
// target and rules out division by zero here.
func Score(h habit.Habit, raw string) (float64, error) {
	switch h.Evaluation {
	case habit.YesNo:
		if raw == YesAnswer {
			return h.Points, nil
		}
		return -h.PenaltyPoints, nil
	case habit.Numeric:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, &habit.ValidationError{Field: "value", Reason: fmt.Sprintf("%q is not a number", raw)}
		}
		return scoreNumeric(h, value), nil
	default:
		return 0, &habit.ValidationError{Field: "evaluation_type", Reason: fmt.Sprintf("unknown value %q", h.Evaluation)}
	}
}

func scoreNumeric(h habit.Habit, value float64) float64 {
	if value < 0 {
		return -h.PenaltyPoints
	}

	switch h.TargetCondition {
	case habit.AtLeast:
		// no effort recorded
		if value == 0 {
			return -h.PenaltyPoints
		}
		if value >= h.TargetValue {
			return h.Points
		}
		points := h.Points * (value / h.TargetValue)
		if points <= 0 {
			return -h.PenaltyPoints
		}
		return points

	case habit.LessThan:
		// Staying under the ceiling is the goal: reward scales from 1x at
		// the target up to 2x at zero, so zero is the best outcome here,
		// not a missed day. Exceeding the ceiling is a failure.
		if value > h.TargetValue {
			return -h.PenaltyPoints
		}
		inverted := 1 - value/h.TargetValue
		return h.Points * (1 + inverted)

	case habit.Exact:
		if value == h.TargetValue {
			return h.Points
		}
		return -h.PenaltyPoints

	default:
		return -h.PenaltyPoints
	}
}

// ScoreTask returns the points for completing (or failing) a one-off task.
func ScoreTask(t habit.Task, done bool) float64 {
	if done {
		return t.Points
	}
	return -t.PenaltyPoints
}
