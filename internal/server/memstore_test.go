package server

import (
	"sync"

	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/datekey"
	"github.com/tallyhq/tally/pkg/habit"
)

type memStore struct {
	mu       sync.RWMutex
	habits   map[string]habit.Habit
	tasks    map[string]habit.Task
	subtasks map[string]habit.Subtask
	rows     map[string]map[datekey.DateKey]habit.Completion
}

func newMemStore() *memStore {
	return &memStore{
		habits:   map[string]habit.Habit{},
		tasks:    map[string]habit.Task{},
		subtasks: map[string]habit.Subtask{},
		rows:     map[string]map[datekey.DateKey]habit.Completion{},
	}
}

func (m *memStore) ListHabits() ([]habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.Habit{}
	for _, h := range m.habits {
		out = append(out, h)
	}
	return out, nil
}

func (m *memStore) GetHabit(id string) (*habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &h, nil
}

func (m *memStore) PutHabit(h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.habits[h.ID] = h
	return nil
}

func (m *memStore) DeleteHabit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.habits, id)
	delete(m.rows, id)
	return nil
}

func (m *memStore) ListTasks() ([]habit.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.Task{}
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) PutTask(t habit.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

func (m *memStore) DeleteTask(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	delete(m.rows, id)
	for sid, st := range m.subtasks {
		if st.TaskID == id {
			delete(m.subtasks, sid)
			delete(m.rows, sid)
		}
	}
	return nil
}

func (m *memStore) ListSubtasks(taskID string) ([]habit.Subtask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.Subtask{}
	for _, st := range m.subtasks {
		if st.TaskID == taskID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *memStore) PutSubtask(st habit.Subtask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subtasks[st.ID] = st
	return nil
}

func (m *memStore) QueryByRef(ref habit.Ref) ([]habit.Completion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []habit.Completion
	for _, c := range m.rows[ref.ID()] {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) QueryByDay(day datekey.DateKey) ([]habit.Completion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []habit.Completion
	for _, byDay := range m.rows {
		if c, ok := byDay[day]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) QueryAll() ([]habit.Completion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []habit.Completion
	for _, byDay := range m.rows {
		for _, c := range byDay {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) insertLocked(c habit.Completion) error {
	byDay := m.rows[c.Ref.ID()]
	if byDay == nil {
		byDay = map[datekey.DateKey]habit.Completion{}
		m.rows[c.Ref.ID()] = byDay
	}
	if _, ok := byDay[c.Day]; ok {
		return storage.ErrAlreadyLogged
	}
	byDay[c.Day] = c
	return nil
}

func (m *memStore) Insert(c habit.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(c)
}

func (m *memStore) InsertBatch(rows []habit.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range rows {
		if _, ok := m.rows[c.Ref.ID()][c.Day]; ok {
			return storage.ErrAlreadyLogged
		}
	}
	for _, c := range rows {
		if err := m.insertLocked(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) DeleteLogged(ref habit.Ref, day datekey.DateKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[ref.ID()][day]
	if !ok {
		return storage.ErrNotFound
	}
	if c.Absent {
		return storage.ErrAbsenceRow
	}
	delete(m.rows[ref.ID()], day)
	return nil
}

func (m *memStore) DeleteByRef(ref habit.Ref) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, ref.ID())
	return nil
}

func (m *memStore) Close() error { return nil }

var _ storage.Store = (*memStore)(nil)
