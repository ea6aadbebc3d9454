package habit

import "fmt"

// ValidationError describes a malformed definition. It is returned before
// any recurrence or scoring evaluation runs, so the evaluators themselves
// can assume a well-formed habit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid habit: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

const maxNameLength = 100

// Validate checks a habit definition. A nil return guarantees the habit is
// safe to feed to the recurrence evaluator and the score calculator, in
// particular that numeric targets can never divide by zero.
func Validate(h Habit) error {
	if h.Name == "" || len(h.Name) > maxNameLength {
		return invalid("name", fmt.Sprintf("must be 1-%d characters", maxNameLength))
	}
	if h.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if !h.EndDate.IsZero() && h.EndDate.Before(h.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}

	switch h.Frequency {
	case Daily, Weekly, Monthly:
	case RepeatEveryNDays:
		if h.NDays < 1 {
			return invalid("n_days", "must be >= 1 for Repeat_Every_N_Days")
		}
	default:
		return invalid("frequency", fmt.Sprintf("unknown value %q", h.Frequency))
	}

	switch h.Evaluation {
	case YesNo:
	case Numeric:
		switch h.TargetCondition {
		case AtLeast, LessThan, Exact:
		default:
			return invalid("target_condition", fmt.Sprintf("unknown value %q", h.TargetCondition))
		}
		if h.TargetValue <= 0 {
			return invalid("target_value", "must be > 0")
		}
	default:
		return invalid("evaluation_type", fmt.Sprintf("unknown value %q", h.Evaluation))
	}

	if h.Points < 0 {
		return invalid("points", "must be >= 0")
	}
	if h.PenaltyPoints < 0 {
		return invalid("penalty_points", "must be >= 0")
	}

	return nil
}

// ValidateTask mirrors Validate for one-off tasks.
func ValidateTask(t Task) error {
	if t.Name == "" || len(t.Name) > maxNameLength {
		return invalid("name", fmt.Sprintf("must be 1-%d characters", maxNameLength))
	}
	if t.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}
	if t.Points < 0 || t.PenaltyPoints < 0 {
		return invalid("points", "must be >= 0")
	}
	return nil
}

// ValidateSubtask checks a subtask definition. Whether the parent task
// exists is the caller's check.
func ValidateSubtask(st Subtask) error {
	if st.Name == "" || len(st.Name) > maxNameLength {
		return invalid("name", fmt.Sprintf("must be 1-%d characters", maxNameLength))
	}
	if st.TaskID == "" {
		return invalid("task_id", "is required")
	}
	if st.Points < 0 {
		return invalid("points", "must be >= 0")
	}
	return nil
}
