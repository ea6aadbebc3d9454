// Package bolt implements storage.Store on a single bbolt file. Completion
// rows live in a nested bucket per reference id, keyed by date, so the
// one-row-per-day invariant is enforced by the keyspace itself. bbolt's
// single-writer transactions give the per-habit atomicity the reconciler
// needs: an InsertBatch either commits whole or not at all, and a
// user-logged write can never interleave with an in-flight batch.
package bolt

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/datekey"
	"github.com/tallyhq/tally/pkg/habit"
)

var (
	habitsBucket      = []byte("habits")
	tasksBucket       = []byte("tasks")
	subtasksBucket    = []byte("subtasks")
	completionsBucket = []byte("completions")
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{habitsBucket, tasksBucket, subtasksBucket, completionsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListHabits() ([]habit.Habit, error) {
	var out []habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(habitsBucket).ForEach(func(_, v []byte) error {
			var h habit.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	return out, err
}

func (s *Store) GetHabit(id string) (*habit.Habit, error) {
	var h habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(habitsBucket).Get([]byte(id))
		if v == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(v, &h)
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) PutHabit(h habit.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		return tx.Bucket(habitsBucket).Put([]byte(h.ID), val)
	})
}

func (s *Store) DeleteHabit(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(habitsBucket).Delete([]byte(id)); err != nil {
			return err
		}
		return deleteCompletions(tx, id)
	})
}

func (s *Store) ListTasks() ([]habit.Task, error) {
	var out []habit.Task
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(tasksBucket).ForEach(func(_, v []byte) error {
			var t habit.Task
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	})
	return out, err
}

func (s *Store) PutTask(t habit.Task) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		val, err := json.Marshal(t)
		if err != nil {
			return err
		}
		return tx.Bucket(tasksBucket).Put([]byte(t.ID), val)
	})
}

// DeleteTask cascades to the task's subtasks and all their completions.
func (s *Store) DeleteTask(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(tasksBucket).Delete([]byte(id)); err != nil {
			return err
		}
		if err := deleteCompletions(tx, id); err != nil {
			return err
		}
		subs := tx.Bucket(subtasksBucket)
		var doomed [][]byte
		err := subs.ForEach(func(k, v []byte) error {
			var st habit.Subtask
			if err := json.Unmarshal(v, &st); err != nil {
				return err
			}
			if st.TaskID == id {
				doomed = append(doomed, append([]byte(nil), k...))
				if err := deleteCompletions(tx, st.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range doomed {
			if err := subs.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListSubtasks(taskID string) ([]habit.Subtask, error) {
	var out []habit.Subtask
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(subtasksBucket).ForEach(func(_, v []byte) error {
			var st habit.Subtask
			if err := json.Unmarshal(v, &st); err != nil {
				return err
			}
			if st.TaskID == taskID {
				out = append(out, st)
			}
			return nil
		})
	})
	return out, err
}

func (s *Store) PutSubtask(st habit.Subtask) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		val, err := json.Marshal(st)
		if err != nil {
			return err
		}
		return tx.Bucket(subtasksBucket).Put([]byte(st.ID), val)
	})
}

func refBucket(tx *bbolt.Tx, refID string, create bool) (*bbolt.Bucket, error) {
	root := tx.Bucket(completionsBucket)
	if create {
		return root.CreateBucketIfNotExists([]byte(refID))
	}
	return root.Bucket([]byte(refID)), nil
}

func deleteCompletions(tx *bbolt.Tx, refID string) error {
	root := tx.Bucket(completionsBucket)
	if root.Bucket([]byte(refID)) == nil {
		return nil
	}
	return root.DeleteBucket([]byte(refID))
}

func (s *Store) QueryByRef(ref habit.Ref) ([]habit.Completion, error) {
	var out []habit.Completion
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, _ := refBucket(tx, ref.ID(), false)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var c habit.Completion
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	})
	return out, err
}

func (s *Store) QueryByDay(day datekey.DateKey) ([]habit.Completion, error) {
	key := []byte(day.String())
	var out []habit.Completion
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(completionsBucket).ForEachBucket(func(refID []byte) error {
			b := tx.Bucket(completionsBucket).Bucket(refID)
			v := b.Get(key)
			if v == nil {
				return nil
			}
			var c habit.Completion
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	})
	return out, err
}

func (s *Store) QueryAll() ([]habit.Completion, error) {
	var out []habit.Completion
	err := s.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(completionsBucket)
		return root.ForEachBucket(func(refID []byte) error {
			return root.Bucket(refID).ForEach(func(_, v []byte) error {
				var c habit.Completion
				if err := json.Unmarshal(v, &c); err != nil {
					return err
				}
				out = append(out, c)
				return nil
			})
		})
	})
	return out, err
}

func (s *Store) Insert(c habit.Completion) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return insertRow(tx, c)
	})
}

func (s *Store) InsertBatch(rows []habit.Completion) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, c := range rows {
			if err := insertRow(tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertRow(tx *bbolt.Tx, c habit.Completion) error {
	if !c.Ref.Valid() {
		return fmt.Errorf("completion %s: exactly one of habit/task/subtask id must be set", c.ID)
	}
	b, err := refBucket(tx, c.Ref.ID(), true)
	if err != nil {
		return err
	}
	key := []byte(c.Day.String())
	if b.Get(key) != nil {
		return fmt.Errorf("%s %s: %w", c.Ref.ID(), c.Day, storage.ErrAlreadyLogged)
	}
	val, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return b.Put(key, val)
}

func (s *Store) DeleteLogged(ref habit.Ref, day datekey.DateKey) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, _ := refBucket(tx, ref.ID(), false)
		if b == nil {
			return storage.ErrNotFound
		}
		key := []byte(day.String())
		v := b.Get(key)
		if v == nil {
			return storage.ErrNotFound
		}
		var c habit.Completion
		if err := json.Unmarshal(v, &c); err != nil {
			return err
		}
		if c.Absent {
			return storage.ErrAbsenceRow
		}
		return b.Delete(key)
	})
}

func (s *Store) DeleteByRef(ref habit.Ref) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteCompletions(tx, ref.ID())
	})
}

var _ storage.Store = (*Store)(nil)
