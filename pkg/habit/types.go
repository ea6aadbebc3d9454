// Package habit holds the domain model shared by the engine, the store and
// the HTTP API: habits with recurrence and scoring rules, one-off tasks,
// and the completion ledger rows they produce.
package habit

import (
	"time"

	"github.com/tallyhq/tally/pkg/datekey"
)

type Frequency string

const (
	Daily            Frequency = "Daily"
	Weekly           Frequency = "Weekly"
	Monthly          Frequency = "Monthly"
	RepeatEveryNDays Frequency = "Repeat_Every_N_Days"
)

type EvaluationType string

const (
	YesNo   EvaluationType = "Yes_Or_No"
	Numeric EvaluationType = "Numeric"
)

type TargetCondition string

const (
	AtLeast  TargetCondition = "At_Least"
	LessThan TargetCondition = "Less_Than"
	Exact    TargetCondition = "Exact"
)

type Habit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	// EndDate is inclusive; the zero value means open-ended.
	StartDate datekey.DateKey `json:"start_date"`
	EndDate   datekey.DateKey `json:"end_date,omitempty"`
	Frequency Frequency       `json:"frequency"`
	// NDays is the repeat interval, set only for RepeatEveryNDays.
	NDays int `json:"n_days,omitempty"`

	Evaluation      EvaluationType  `json:"evaluation_type"`
	TargetCondition TargetCondition `json:"target_condition,omitempty"`
	TargetValue     float64         `json:"target_value,omitempty"`
	TargetUnit      string          `json:"target_unit,omitempty"`

	Points float64 `json:"points"`
	// PenaltyPoints is stored non-negative and applied as a negative score.
	PenaltyPoints float64 `json:"penalty_points"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// Task is a one-off item: no recurrence, scored once.
type Task struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	StartDate     datekey.DateKey `json:"start_date"`
	EndDate       datekey.DateKey `json:"end_date,omitempty"`
	Points        float64         `json:"points"`
	PenaltyPoints float64         `json:"penalty_points"`
	CreatedAt     int64           `json:"created_at,omitempty"`
}

type Subtask struct {
	ID     string  `json:"id"`
	TaskID string  `json:"task_id"`
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// Ref identifies what a completion belongs to. Exactly one field is set.
type Ref struct {
	HabitID   string `json:"habit_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
	SubtaskID string `json:"subtask_id,omitempty"`
}

// HabitRef is a convenience constructor for the common case.
func HabitRef(id string) Ref {
	return Ref{HabitID: id}
}

// ID returns whichever reference id is set.
func (r Ref) ID() string {
	switch {
	case r.HabitID != "":
		return r.HabitID
	case r.TaskID != "":
		return r.TaskID
	default:
		return r.SubtaskID
	}
}

// Valid reports whether exactly one reference field is set.
func (r Ref) Valid() bool {
	n := 0
	for _, id := range []string{r.HabitID, r.TaskID, r.SubtaskID} {
		if id != "" {
			n++
		}
	}
	return n == 1
}

// Completion is one ledger row: a habit, task or subtask produced points on
// a given day. Absent rows are inserted by the reconciler for missed
// occurrences, never by the user.
type Completion struct {
	ID      string          `json:"id"`
	Ref     Ref             `json:"ref"`
	LogDate time.Time       `json:"log_date"`
	Day     datekey.DateKey `json:"day"`
	Points  float64         `json:"points"`
	Absent  bool            `json:"absent,omitempty"`
}
