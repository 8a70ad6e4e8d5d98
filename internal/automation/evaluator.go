package automation

import (
	"fmt"
	"strings"
	"time"

	"github.com/dealdesk/dealdesk/internal/domain"
)

// Time-of-day tolerance windows. The interactive evaluator uses a tight
// window; the sweep uses a wider one so a rule is not missed between ticks.
const (
	DefaultTimeTolerance = time.Minute
	SweepTimeTolerance   = 5 * time.Minute
)

// TriggerContext carries a transaction snapshot plus the trigger-specific
// data for the event being evaluated. Constructed per evaluation, never
// persisted.
type TriggerContext struct {
	Transaction *domain.Transaction
	OldStatus   *domain.TransactionStatus
	NewStatus   *domain.TransactionStatus
	Task        *domain.TransactionTask
	Document    *domain.TransactionDocument
}

// Evaluator decides whether a trigger condition holds for a context at a
// given instant. Evaluate is pure: no clock reads, no storage access.
type Evaluator struct {
	// Tolerance is the half-width of the time_based match window.
	Tolerance time.Duration
}

// NewEvaluator returns an evaluator with the default one-minute window
func NewEvaluator() *Evaluator {
	return &Evaluator{Tolerance: DefaultTimeTolerance}
}

// Evaluate returns whether the condition matches the context at instant now.
// An unknown condition type is an error; callers treat errors as non-matches.
func (ev *Evaluator) Evaluate(cond domain.TriggerCondition, tc TriggerContext, now time.Time) (bool, error) {
	switch cond.Type {
	case domain.ConditionContractDateOffset:
		var ref *time.Time
		if tc.Transaction != nil {
			ref = tc.Transaction.ContractDate
		}
		return matchDateOffset(cond, ref, now), nil
	case domain.ConditionClosingDateOffset:
		var ref *time.Time
		if tc.Transaction != nil {
			ref = tc.Transaction.ClosingDate
		}
		return matchDateOffset(cond, ref, now), nil
	case domain.ConditionStatusChange:
		return matchStatusChange(cond, tc), nil
	case domain.ConditionTaskCompleted:
		return matchTaskCompleted(cond, tc), nil
	case domain.ConditionDocumentUploaded:
		return matchDocumentUploaded(cond, tc), nil
	case domain.ConditionTimeBased:
		return matchTimeBased(cond, now, ev.Tolerance)
	default:
		return false, fmt.Errorf("unknown trigger condition type %q", cond.Type)
	}
}

// matchDateOffset reports whether now falls on the calendar day at
// reference ± offset_days. A missing reference date never matches.
func matchDateOffset(cond domain.TriggerCondition, ref *time.Time, now time.Time) bool {
	if ref == nil {
		return false
	}
	days := cond.OffsetDays
	if cond.OffsetType == domain.OffsetBefore {
		days = -days
	}
	target := ref.AddDate(0, 0, days)
	return sameDay(target, now)
}

func matchStatusChange(cond domain.TriggerCondition, tc TriggerContext) bool {
	if tc.OldStatus == nil || tc.NewStatus == nil {
		return false
	}
	if cond.FromStatus != nil && *cond.FromStatus != *tc.OldStatus {
		return false
	}
	if cond.ToStatus != nil && *cond.ToStatus != *tc.NewStatus {
		return false
	}
	return true
}

func matchTaskCompleted(cond domain.TriggerCondition, tc TriggerContext) bool {
	task := tc.Task
	if task == nil || !task.Completed {
		return false
	}
	if cond.TaskTitleContains != "" &&
		!strings.Contains(strings.ToLower(task.Title), strings.ToLower(cond.TaskTitleContains)) {
		return false
	}
	if cond.TaskPriority != nil && *cond.TaskPriority != task.Priority {
		return false
	}
	return true
}

func matchDocumentUploaded(cond domain.TriggerCondition, tc TriggerContext) bool {
	doc := tc.Document
	if doc == nil {
		return false
	}
	if cond.FileNameContains != "" &&
		!strings.Contains(strings.ToLower(doc.FileName), strings.ToLower(cond.FileNameContains)) {
		return false
	}
	return true
}

func matchTimeBased(cond domain.TriggerCondition, now time.Time, tolerance time.Duration) (bool, error) {
	if len(cond.DaysOfWeek) > 0 {
		allowed := false
		for _, d := range cond.DaysOfWeek {
			if time.Weekday(d) == now.Weekday() {
				allowed = true
				break
			}
		}
		if !allowed {
			return false, nil
		}
	}

	tod, err := time.Parse("15:04", cond.TimeOfDay)
	if err != nil {
		return false, fmt.Errorf("malformed time_of_day %q: %w", cond.TimeOfDay, err)
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), tod.Hour(), tod.Minute(), 0, 0, now.Location())
	diff := now.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
