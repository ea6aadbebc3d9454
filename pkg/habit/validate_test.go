package habit

import (
	"errors"
	"testing"

	"github.com/tallyhq/tally/pkg/datekey"
)

func validHabit() Habit {
	return Habit{
		ID:            "h1",
		Name:          "read",
		StartDate:     datekey.MustParse("2024-01-01"),
		Frequency:     Daily,
		Evaluation:    YesNo,
		Points:        5,
		PenaltyPoints: 3,
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validHabit()); err != nil {
		t.Fatalf("valid habit rejected: %v", err)
	}

	numeric := validHabit()
	numeric.Evaluation = Numeric
	numeric.TargetCondition = AtLeast
	numeric.TargetValue = 10
	if err := Validate(numeric); err != nil {
		t.Fatalf("valid numeric habit rejected: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Habit)
	}{
		{"empty name", func(h *Habit) { h.Name = "" }},
		{"missing start date", func(h *Habit) { h.StartDate = datekey.DateKey{} }},
		{"end before start", func(h *Habit) { h.EndDate = datekey.MustParse("2023-12-31") }},
		{"unknown frequency", func(h *Habit) { h.Frequency = "Hourly" }},
		{"missing n-day interval", func(h *Habit) { h.Frequency = RepeatEveryNDays }},
		{"zero n-day interval", func(h *Habit) { h.Frequency = RepeatEveryNDays; h.NDays = 0 }},
		{"unknown evaluation", func(h *Habit) { h.Evaluation = "Scale" }},
		{"numeric without condition", func(h *Habit) { h.Evaluation = Numeric; h.TargetValue = 10 }},
		{"numeric zero target", func(h *Habit) {
			h.Evaluation = Numeric
			h.TargetCondition = AtLeast
			h.TargetValue = 0
		}},
		{"negative points", func(h *Habit) { h.Points = -1 }},
		{"negative penalty", func(h *Habit) { h.PenaltyPoints = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHabit()
			tt.mutate(&h)
			err := Validate(h)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestValidate_EndEqualsStart(t *testing.T) {
	h := validHabit()
	h.EndDate = h.StartDate
	if err := Validate(h); err != nil {
		t.Fatalf("end == start should be allowed: %v", err)
	}
}

func TestRef_Valid(t *testing.T) {
	tests := []struct {
		ref  Ref
		want bool
	}{
		{Ref{HabitID: "h1"}, true},
		{Ref{TaskID: "t1"}, true},
		{Ref{SubtaskID: "s1"}, true},
		{Ref{}, false},
		{Ref{HabitID: "h1", TaskID: "t1"}, false},
	}
	for _, tt := range tests {
		if got := tt.ref.Valid(); got != tt.want {
			t.Errorf("Valid(%+v) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestValidateTask(t *testing.T) {
	task := Task{Name: "move", StartDate: datekey.MustParse("2024-01-01"), Points: 4}
	if err := ValidateTask(task); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	task.Name = ""
	if err := ValidateTask(task); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestValidateSubtask(t *testing.T) {
	st := Subtask{ID: "s1", TaskID: "t1", Name: "passport", Points: 2}
	if err := ValidateSubtask(st); err != nil {
		t.Fatalf("valid subtask rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Subtask)
	}{
		{"empty name", func(st *Subtask) { st.Name = "" }},
		{"missing task id", func(st *Subtask) { st.TaskID = "" }},
		{"negative points", func(st *Subtask) { st.Points = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := st
			tt.mutate(&bad)
			if err := ValidateSubtask(bad); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
