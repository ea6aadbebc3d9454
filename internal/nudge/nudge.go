// Package nudge emails the user a summary after a reconciliation run that
// found missed habit occurrences.
package nudge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tallyhq/tally/internal/reconcile"
	"github.com/tallyhq/tally/internal/storage"
)

// Notifier delivers a missed-habits summary. Mocked in tests.
type Notifier interface {
	SendMissedSummary(subject, html string) error
}

// SendReport composes and sends a summary of the report's absence
// insertions. A report with no insertions sends nothing.
func SendReport(n Notifier, habits storage.HabitStore, report *reconcile.Report) error {
	if report == nil || report.RowsInserted == 0 {
		return nil
	}

	lines := make([]string, 0, len(report.Inserted))
	for id, count := range report.Inserted {
		name := id
		if h, err := habits.GetHabit(id); err == nil {
			name = h.Name
		}
		lines = append(lines, fmt.Sprintf("<li><strong>%s</strong>: %d missed day(s)</li>", name, count))
	}
	sort.Strings(lines)

	subject := fmt.Sprintf("You missed %d habit day(s)", report.RowsInserted)
	html := fmt.Sprintf("<p>Penalties were applied for missed habits:</p><ul>%s</ul>",
		strings.Join(lines, ""))

	return n.SendMissedSummary(subject, html)
}
