package reconcile

import (
	"errors"
	"sync"

	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/datekey"
	"github.com/tallyhq/tally/pkg/habit"
)

type memHabits struct {
	habits []habit.Habit
}

func (m *memHabits) ListHabits() ([]habit.Habit, error) {
	return append([]habit.Habit(nil), m.habits...), nil
}

func (m *memHabits) GetHabit(id string) (*habit.Habit, error) {
	for i := range m.habits {
		if m.habits[i].ID == id {
			h := m.habits[i]
			return &h, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memHabits) PutHabit(h habit.Habit) error { m.habits = append(m.habits, h); return nil }
func (m *memHabits) DeleteHabit(string) error     { return nil }

func (m *memHabits) ListTasks() ([]habit.Task, error)             { return nil, nil }
func (m *memHabits) PutTask(habit.Task) error                     { return nil }
func (m *memHabits) DeleteTask(string) error                      { return nil }
func (m *memHabits) ListSubtasks(string) ([]habit.Subtask, error) { return nil, nil }
func (m *memHabits) PutSubtask(habit.Subtask) error               { return nil }

// memLedger is an in-memory CompletionLedger whose InsertBatch can be made
// to fail for a specific habit, to exercise per-habit rollback isolation.
type memLedger struct {
	mu   sync.Mutex
	rows []habit.Completion

	failBatchFor string
}

var errBatchFailed = errors.New("simulated store failure")

func (m *memLedger) QueryByRef(ref habit.Ref) ([]habit.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []habit.Completion
	for _, c := range m.rows {
		if c.Ref.ID() == ref.ID() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memLedger) QueryByDay(day datekey.DateKey) ([]habit.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []habit.Completion
	for _, c := range m.rows {
		if c.Day == day {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memLedger) QueryAll() ([]habit.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]habit.Completion(nil), m.rows...), nil
}

func (m *memLedger) Insert(c habit.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, c)
	return nil
}

func (m *memLedger) InsertBatch(rows []habit.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(rows) > 0 && rows[0].Ref.ID() == m.failBatchFor {
		// all-or-nothing: nothing from a failed batch lands
		return errBatchFailed
	}
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memLedger) DeleteLogged(ref habit.Ref, day datekey.DateKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.rows {
		if c.Ref.ID() == ref.ID() && c.Day == day {
			if c.Absent {
				return storage.ErrAbsenceRow
			}
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memLedger) DeleteByRef(ref habit.Ref) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, c := range m.rows {
		if c.Ref.ID() != ref.ID() {
			kept = append(kept, c)
		}
	}
	m.rows = kept
	return nil
}

var (
	_ storage.HabitStore       = (*memHabits)(nil)
	_ storage.CompletionLedger = (*memLedger)(nil)
)
