package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tally_reconcile_runs_total",
			Help: "Total number of reconciliation runs started",
		},
	)

	absentRowsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tally_reconcile_absent_rows_total",
			Help: "Total number of absence rows inserted by the reconciler",
		},
	)

	failedHabits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tally_reconcile_failed_habits_total",
			Help: "Total number of per-habit reconciliation failures",
		},
	)
)
