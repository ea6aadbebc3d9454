package server

import (
	"github.com/tallyhq/tally/internal/growth"
	"github.com/tallyhq/tally/pkg/habit"
)

type HabitListResponse struct {
	Habits []habit.Habit `json:"habits"`
}

type DueListResponse struct {
	Date   string        `json:"date"`
	Habits []habit.Habit `json:"habits"`
}

type TaskListResponse struct {
	Tasks []habit.Task `json:"tasks"`
}

type SubtaskListResponse struct {
	TaskID   string          `json:"task_id"`
	Subtasks []habit.Subtask `json:"subtasks"`
}

type HabitSummaryResponse struct {
	HabitID string       `json:"habit_id"`
	Summary HabitSummary `json:"summary"`
}

// HabitSummary is computed from the ledger on demand; absence rows count
// toward points but never toward streaks.
type HabitSummary struct {
	Name          string  `json:"name"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	TotalDaysDone int     `json:"total_days_done"`
	DaysMissed    int     `json:"days_missed"`
	TotalPoints   float64 `json:"total_points"`
}

type GrowthResponse struct {
	Range  string         `json:"range"`
	Points []growth.Point `json:"points"`
}
