package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/growth"
	"github.com/tallyhq/tally/internal/logger"
	"github.com/tallyhq/tally/internal/recurrence"
	"github.com/tallyhq/tally/internal/scoring"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/datekey"
	"github.com/tallyhq/tally/pkg/habit"
	"github.com/tallyhq/tally/pkg/versioninfo"
)

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	http.Error(w, fmt.Sprintf(`{"error":%q}`, msg), code)
}

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	info := versioninfo.VersionInfo{
		Version:   versioninfo.Version,
		BuildDate: versioninfo.BuildDate,
	}
	if err := writeJSON(w, http.StatusOK, info); err != nil {
		logger.Error("Failed to serialize version info", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize version info")
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var h habit.Habit
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		logger.Warn("Invalid JSON in create habit request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt == 0 {
		h.CreatedAt = time.Now().Unix()
	}
	if err := habit.Validate(h); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Info("Storing habit", "habit_id", h.ID, "habit_name", h.Name)
	if err := s.store.PutHabit(h); err != nil {
		logger.Error("Failed to store habit", "habit_id", h.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}
	s.updateActiveHabitsMetric()
	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "habit_id", h.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) listHabits(w http.ResponseWriter, _ *http.Request) {
	habits, err := s.store.ListHabits()
	if err != nil {
		logger.Error("Failed to list habits", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: habits}); err != nil {
		logger.Error("Failed to serialize habit list response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

// listDueHabits returns the habits whose recurrence rule fires on the given
// date (default today), the query behind the daily checklist screen.
func (s *Server) listDueHabits(w http.ResponseWriter, r *http.Request) {
	day := s.clock.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := datekey.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		day = parsed
	}

	habits, err := s.store.ListHabits()
	if err != nil {
		logger.Error("Failed to list habits for due list", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	due := []habit.Habit{}
	for _, h := range habits {
		if recurrence.IsDue(h, day) {
			due = append(due, h)
		}
	}
	if err := writeJSON(w, http.StatusOK, DueListResponse{Date: day.String(), Habits: due}); err != nil {
		logger.Error("Failed to serialize due list response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "habit_id")
	h, err := s.store.GetHabit(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		logger.Error("Failed to get habit", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if err := writeJSON(w, http.StatusOK, h); err != nil {
		logger.Error("Failed to serialize habit response", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "habit_id")
	if _, err := s.store.GetHabit(id); errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	} else if err != nil {
		logger.Error("Failed to load habit for update", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	var h habit.Habit
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h.ID = id
	if err := habit.Validate(h); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.PutHabit(h); err != nil {
		logger.Error("Failed to update habit", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}
	if err := writeJSON(w, http.StatusOK, h); err != nil {
		logger.Error("Failed to serialize update habit response", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "habit_id")
	logger.Info("Deleting habit", "habit_id", id)
	if err := s.store.DeleteHabit(id); err != nil {
		logger.Error("Failed to delete habit", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	s.updateActiveHabitsMetric()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHabitSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "habit_id")
	h, err := s.store.GetHabit(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		logger.Error("Failed to load habit for summary", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	summary, err := s.computeSummary(h)
	if err != nil {
		logger.Error("Failed to compute habit summary", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "error computing summary")
		return
	}
	resp := HabitSummaryResponse{HabitID: id, Summary: summary}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize habit summary response", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

type logCompletionRequest struct {
	// Value is the raw completion input: "Yes"/"No" for Yes_Or_No habits,
	// a number for Numeric ones.
	Value string `json:"value"`
	// Date defaults to today.
	Date string `json:"date,omitempty"`
}

func (s *Server) logCompletion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "habit_id")
	h, err := s.store.GetHabit(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		logger.Error("Failed to load habit for completion", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	var req logCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	day := s.clock.Today()
	if req.Date != "" {
		day, err = datekey.Parse(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
	}

	points, err := scoring.Score(*h, req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := habit.Completion{
		ID:      uuid.NewString(),
		Ref:     habit.HabitRef(h.ID),
		LogDate: time.Now(),
		Day:     day,
		Points:  points,
	}
	if err := s.store.Insert(c); err != nil {
		if errors.Is(err, storage.ErrAlreadyLogged) {
			writeError(w, http.StatusConflict, "already logged for this day")
			return
		}
		logger.Error("Failed to insert completion", "habit_id", id, "day", day.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}
	logger.Info("Logged completion", "habit_id", id, "day", day.String(), "points", points)
	if err := writeJSON(w, http.StatusCreated, c); err != nil {
		logger.Error("Failed to serialize completion response", "habit_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

// unlogCompletion is the toggle-off path. It removes the user-logged row
// for the day; rows the reconciler inserted stay put.
func (s *Server) unlogCompletion(w http.ResponseWriter, r *http.Request) {
	s.deleteLoggedRow(w, habit.HabitRef(chi.URLParam(r, "habit_id")), chi.URLParam(r, "date"))
}

func (s *Server) deleteLoggedRow(w http.ResponseWriter, ref habit.Ref, rawDate string) {
	day, err := datekey.Parse(rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	err = s.store.DeleteLogged(ref, day)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "no completion logged for this day")
	case errors.Is(err, storage.ErrAbsenceRow):
		writeError(w, http.StatusConflict, "cannot remove an absence row")
	case err != nil:
		logger.Error("Failed to delete completion", "ref_id", ref.ID(), "day", day.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var t habit.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	if err := habit.ValidateTask(t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.PutTask(t); err != nil {
		logger.Error("Failed to store task", "task_id", t.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}
	if err := writeJSON(w, http.StatusCreated, t); err != nil {
		logger.Error("Failed to serialize create task response", "task_id", t.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) listTasks(w http.ResponseWriter, _ *http.Request) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		logger.Error("Failed to list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if err := writeJSON(w, http.StatusOK, TaskListResponse{Tasks: tasks}); err != nil {
		logger.Error("Failed to serialize task list response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "task_id")
	if err := s.store.DeleteTask(id); err != nil {
		logger.Error("Failed to delete task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type logTaskCompletionRequest struct {
	Done bool   `json:"done"`
	Date string `json:"date,omitempty"`
}

// findTask scans the task list; the store keeps tasks unindexed.
func (s *Server) findTask(id string) (*habit.Task, error) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Server) logTaskCompletion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "task_id")

	task, err := s.findTask(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		logger.Error("Failed to load tasks for completion", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	var req logTaskCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	day := s.clock.Today()
	if req.Date != "" {
		day, err = datekey.Parse(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
	}

	c := habit.Completion{
		ID:      uuid.NewString(),
		Ref:     habit.Ref{TaskID: task.ID},
		LogDate: time.Now(),
		Day:     day,
		Points:  scoring.ScoreTask(*task, req.Done),
	}
	if err := s.store.Insert(c); err != nil {
		if errors.Is(err, storage.ErrAlreadyLogged) {
			writeError(w, http.StatusConflict, "already logged for this day")
			return
		}
		logger.Error("Failed to insert task completion", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}
	if err := writeJSON(w, http.StatusCreated, c); err != nil {
		logger.Error("Failed to serialize task completion response", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) createSubtask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	if _, err := s.findTask(taskID); errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	} else if err != nil {
		logger.Error("Failed to load task for subtask", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	var st habit.Subtask
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	st.TaskID = taskID
	if err := habit.ValidateSubtask(st); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.PutSubtask(st); err != nil {
		logger.Error("Failed to store subtask", "subtask_id", st.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}
	if err := writeJSON(w, http.StatusCreated, st); err != nil {
		logger.Error("Failed to serialize create subtask response", "subtask_id", st.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) listSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	if _, err := s.findTask(taskID); errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	} else if err != nil {
		logger.Error("Failed to load task for subtask list", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	subtasks, err := s.store.ListSubtasks(taskID)
	if err != nil {
		logger.Error("Failed to list subtasks", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	resp := SubtaskListResponse{TaskID: taskID, Subtasks: subtasks}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize subtask list response", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

type logSubtaskCompletionRequest struct {
	// Date defaults to today.
	Date string `json:"date,omitempty"`
}

// logSubtaskCompletion checks a subtask off. Subtasks carry no penalty and
// no recurrence; checking one always earns its own points, independent of
// the parent task's state.
func (s *Server) logSubtaskCompletion(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	subtaskID := chi.URLParam(r, "subtask_id")

	subtasks, err := s.store.ListSubtasks(taskID)
	if err != nil {
		logger.Error("Failed to load subtasks for completion", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	var subtask *habit.Subtask
	for i := range subtasks {
		if subtasks[i].ID == subtaskID {
			subtask = &subtasks[i]
			break
		}
	}
	if subtask == nil {
		writeError(w, http.StatusNotFound, "subtask not found")
		return
	}

	var req logSubtaskCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	day := s.clock.Today()
	if req.Date != "" {
		day, err = datekey.Parse(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
	}

	c := habit.Completion{
		ID:      uuid.NewString(),
		Ref:     habit.Ref{SubtaskID: subtask.ID},
		LogDate: time.Now(),
		Day:     day,
		Points:  subtask.Points,
	}
	if err := s.store.Insert(c); err != nil {
		if errors.Is(err, storage.ErrAlreadyLogged) {
			writeError(w, http.StatusConflict, "already logged for this day")
			return
		}
		logger.Error("Failed to insert subtask completion", "subtask_id", subtaskID, "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}
	if err := writeJSON(w, http.StatusCreated, c); err != nil {
		logger.Error("Failed to serialize subtask completion response", "subtask_id", subtaskID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) unlogSubtaskCompletion(w http.ResponseWriter, r *http.Request) {
	ref := habit.Ref{SubtaskID: chi.URLParam(r, "subtask_id")}
	s.deleteLoggedRow(w, ref, chi.URLParam(r, "date"))
}

func (s *Server) runReconcile(w http.ResponseWriter, r *http.Request) {
	report, err := s.reconciler.Run(r.Context())
	if err != nil {
		logger.Error("Reconciliation run failed", "error", err)
		writeError(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}
	if err := writeJSON(w, http.StatusOK, report); err != nil {
		logger.Error("Failed to serialize reconciliation report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}

func (s *Server) getGrowthSeries(w http.ResponseWriter, r *http.Request) {
	filter := growth.All
	if v := r.URL.Query().Get("range"); v != "" {
		filter = growth.RangeFilter(v)
	}
	maxPoints := growth.DefaultMaxPoints
	if v := r.URL.Query().Get("points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "points must be a positive integer")
			return
		}
		maxPoints = n
	}

	series, err := growth.Series(s.store, s.clock, filter, maxPoints)
	if err != nil {
		logger.Error("Failed to compute growth series", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if err := writeJSON(w, http.StatusOK, GrowthResponse{Range: string(filter), Points: series}); err != nil {
		logger.Error("Failed to serialize growth response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize response")
	}
}
