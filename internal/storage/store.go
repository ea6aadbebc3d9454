// Package storage defines the persistence contracts the engine runs
// against. The bolt subpackage is the real implementation; tests use
// in-memory fakes.
package storage

import (
	"errors"

	"github.com/tallyhq/tally/pkg/datekey"
	"github.com/tallyhq/tally/pkg/habit"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrAlreadyLogged is returned when a user-logged completion already
	// exists for the same reference and day.
	ErrAlreadyLogged = errors.New("completion already logged for this day")
	// ErrAbsenceRow is returned when a toggle-off tries to remove a row
	// the reconciler inserted. Absence rows only go away with the habit.
	ErrAbsenceRow = errors.New("cannot delete an absence row")
)

// HabitStore holds habit, task and subtask definitions.
type HabitStore interface {
	ListHabits() ([]habit.Habit, error)
	GetHabit(id string) (*habit.Habit, error)
	PutHabit(h habit.Habit) error
	// DeleteHabit removes the habit and cascades its completions,
	// absence rows included.
	DeleteHabit(id string) error

	ListTasks() ([]habit.Task, error)
	PutTask(t habit.Task) error
	DeleteTask(id string) error

	ListSubtasks(taskID string) ([]habit.Subtask, error)
	PutSubtask(s habit.Subtask) error
}

// CompletionLedger is the append/delete store of completion rows.
type CompletionLedger interface {
	// QueryByRef returns every row for a reference, absence rows included.
	QueryByRef(ref habit.Ref) ([]habit.Completion, error)
	QueryByDay(day datekey.DateKey) ([]habit.Completion, error)
	QueryAll() ([]habit.Completion, error)
	// Insert adds one user-logged row; ErrAlreadyLogged if the day is
	// already user-logged for the same reference.
	Insert(c habit.Completion) error
	// InsertBatch writes all rows in a single transaction. On any failure
	// nothing is written.
	InsertBatch(rows []habit.Completion) error
	// DeleteLogged removes the user-logged row for (ref, day). It refuses
	// absence rows with ErrAbsenceRow.
	DeleteLogged(ref habit.Ref, day datekey.DateKey) error
	DeleteByRef(ref habit.Ref) error
}

// Store is the full persistence surface the application opens once and
// shares.
type Store interface {
	HabitStore
	CompletionLedger
	Close() error
}
