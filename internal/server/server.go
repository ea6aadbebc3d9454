// Package server exposes the engine over HTTP. The API is the surface the
// mobile/web client talks to: habit and task CRUD, the daily due list,
// completion logging, reconciliation and the growth series.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallyhq/tally/internal/reconcile"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/datekey"
)

type Server struct {
	store      storage.Store
	clock      datekey.Clock
	reconciler *reconcile.Reconciler
}

func New(store storage.Store, clock datekey.Clock) *Server {
	return &Server{
		store:      store,
		clock:      clock,
		reconciler: reconcile.New(store, store, clock),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/habits", func(r chi.Router) {
		r.Post("/", s.createHabit)
		r.Get("/", s.listHabits)
		r.Get("/due", s.listDueHabits)
		r.Get("/{habit_id}", s.getHabit)
		r.Put("/{habit_id}", s.updateHabit)
		r.Delete("/{habit_id}", s.deleteHabit)
		r.Get("/{habit_id}/summary", s.getHabitSummary)
		r.Post("/{habit_id}/completions", s.logCompletion)
		r.Delete("/{habit_id}/completions/{date}", s.unlogCompletion)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", s.createTask)
		r.Get("/", s.listTasks)
		r.Delete("/{task_id}", s.deleteTask)
		r.Post("/{task_id}/completions", s.logTaskCompletion)
		r.Post("/{task_id}/subtasks", s.createSubtask)
		r.Get("/{task_id}/subtasks", s.listSubtasks)
		r.Post("/{task_id}/subtasks/{subtask_id}/completions", s.logSubtaskCompletion)
		r.Delete("/{task_id}/subtasks/{subtask_id}/completions/{date}", s.unlogSubtaskCompletion)
	})

	r.Post("/reconcile", s.runReconcile)
	r.Get("/growth", s.getGrowthSeries)

	return r
}
