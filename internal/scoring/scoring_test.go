package scoring

import (
	"testing"

	"github.com/tallyhq/tally/pkg/habit"
)

func numericHabit(cond habit.TargetCondition, target float64) habit.Habit {
	return habit.Habit{
		Evaluation:      habit.Numeric,
		TargetCondition: cond,
		TargetValue:     target,
		Points:          5,
		PenaltyPoints:   3,
	}
}

func TestScore_YesNo(t *testing.T) {
	h := habit.Habit{Evaluation: habit.YesNo, Points: 5, PenaltyPoints: 3}

	got, err := Score(h, "Yes")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if got != 5 {
		t.Errorf("Yes: got %v, want 5", got)
	}

	for _, raw := range []string{"No", "", "yes", "maybe"} {
		got, err := Score(h, raw)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", raw, err)
		}
		if got != -3 {
			t.Errorf("Score(%q): got %v, want -3", raw, got)
		}
	}
}

func TestScore_AtLeast(t *testing.T) {
	h := numericHabit(habit.AtLeast, 10)

	tests := []struct {
		raw  string
		want float64
	}{
		{"10", 5},  // met the target
		{"15", 5},  // exceeded, no bonus
		{"5", 2.5}, // partial credit by ratio
		{"1", 0.5}, // fractional points allowed
		{"0", -3},  // no effort
		{"-2", -3}, // negative input is no effort
	}
	for _, tt := range tests {
		got, err := Score(h, tt.raw)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("Score(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestScore_LessThan(t *testing.T) {
	h := numericHabit(habit.LessThan, 10)

	tests := []struct {
		raw  string
		want float64
	}{
		{"10", 5},  // at the ceiling: 1x
		{"5", 7.5}, // halfway under: 1.5x
		{"0", 10},  // zero is the best outcome: 2x
		{"11", -3}, // exceeded the ceiling
		{"-1", -3},
	}
	for _, tt := range tests {
		got, err := Score(h, tt.raw)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("Score(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestScore_Exact(t *testing.T) {
	h := numericHabit(habit.Exact, 10)

	tests := []struct {
		raw  string
		want float64
	}{
		{"10", 5},
		{"10.0", 5},
		{"9.99", -3},
		{"11", -3},
	}
	for _, tt := range tests {
		got, err := Score(h, tt.raw)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("Score(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestScore_NumericRejectsNonNumbers(t *testing.T) {
	h := numericHabit(habit.AtLeast, 10)
	if _, err := Score(h, "lots"); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
}

func TestScoreTask(t *testing.T) {
	task := habit.Task{Points: 4, PenaltyPoints: 2}
	if got := ScoreTask(task, true); got != 4 {
		t.Errorf("done: got %v, want 4", got)
	}
	if got := ScoreTask(task, false); got != -2 {
		t.Errorf("not done: got %v, want -2", got)
	}
}
