package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dealdesk/dealdesk/internal/domain"
)

func datePtr(t time.Time) *time.Time { return &t }

func statusPtr(s domain.TransactionStatus) *domain.TransactionStatus { return &s }

func TestEvaluator_ContractDateOffset(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	contract := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC) // 7 days before now

	cond := domain.TriggerCondition{
		Type:       domain.ConditionContractDateOffset,
		OffsetDays: 7,
		OffsetType: domain.OffsetAfter,
	}

	tests := []struct {
		name     string
		contract *time.Time
		now      time.Time
		want     bool
	}{
		{"exactly 7 days after", &contract, now, true},
		{"one day late", &contract, now.AddDate(0, 0, 1), false},
		{"one day early", &contract, now.AddDate(0, 0, -1), false},
		{"no reference date", nil, now, false},
	}

	ev := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := TriggerContext{Transaction: &domain.Transaction{ContractDate: tt.contract}}
			got, err := ev.Evaluate(cond, tc, tt.now)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_ClosingDateOffsetBefore(t *testing.T) {
	closing := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	cond := domain.TriggerCondition{
		Type:       domain.ConditionClosingDateOffset,
		OffsetDays: 3,
		OffsetType: domain.OffsetBefore,
	}

	ev := NewEvaluator()
	tc := TriggerContext{Transaction: &domain.Transaction{ClosingDate: datePtr(closing)}}

	got, err := ev.Evaluate(cond, tc, time.Date(2026, 6, 12, 8, 30, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = ev.Evaluate(cond, tc, time.Date(2026, 6, 13, 8, 30, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.False(t, got)

	// nil closing date never matches
	got, err = ev.Evaluate(cond, TriggerContext{Transaction: &domain.Transaction{}}, time.Date(2026, 6, 12, 8, 30, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluator_StatusChange(t *testing.T) {
	now := time.Now()
	ev := NewEvaluator()

	cond := domain.TriggerCondition{
		Type:       domain.ConditionStatusChange,
		FromStatus: statusPtr(domain.TransactionStatusIntake),
		ToStatus:   statusPtr(domain.TransactionStatusActive),
	}

	tests := []struct {
		name string
		old  domain.TransactionStatus
		new  domain.TransactionStatus
		want bool
	}{
		{"exact match", domain.TransactionStatusIntake, domain.TransactionStatusActive, true},
		{"wrong target", domain.TransactionStatusIntake, domain.TransactionStatusClosed, false},
		{"wrong source", domain.TransactionStatusActive, domain.TransactionStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := TriggerContext{
				Transaction: &domain.Transaction{},
				OldStatus:   statusPtr(tt.old),
				NewStatus:   statusPtr(tt.new),
			}
			got, err := ev.Evaluate(cond, tc, now)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// absent filters are wildcards
	wildcard := domain.TriggerCondition{Type: domain.ConditionStatusChange}
	got, err := ev.Evaluate(wildcard, TriggerContext{
		Transaction: &domain.Transaction{},
		OldStatus:   statusPtr(domain.TransactionStatusActive),
		NewStatus:   statusPtr(domain.TransactionStatusPendingClose),
	}, now)
	assert.NoError(t, err)
	assert.True(t, got)

	// missing context never matches
	got, err = ev.Evaluate(wildcard, TriggerContext{Transaction: &domain.Transaction{}}, now)
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluator_TaskCompleted(t *testing.T) {
	now := time.Now()
	ev := NewEvaluator()

	cond := domain.TriggerCondition{
		Type:              domain.ConditionTaskCompleted,
		TaskTitleContains: "inspection",
	}

	task := &domain.TransactionTask{Title: "Schedule Inspection", Completed: true}
	got, err := ev.Evaluate(cond, TriggerContext{Task: task}, now)
	assert.NoError(t, err)
	assert.True(t, got, "case-insensitive substring should match")

	incomplete := &domain.TransactionTask{Title: "Schedule Inspection", Completed: false}
	got, err = ev.Evaluate(cond, TriggerContext{Task: incomplete}, now)
	assert.NoError(t, err)
	assert.False(t, got)

	unrelated := &domain.TransactionTask{Title: "Order appraisal", Completed: true}
	got, err = ev.Evaluate(cond, TriggerContext{Task: unrelated}, now)
	assert.NoError(t, err)
	assert.False(t, got)

	// priority filter
	high := domain.TaskPriorityHigh
	cond.TaskPriority = &high
	task.Priority = domain.TaskPriorityLow
	got, err = ev.Evaluate(cond, TriggerContext{Task: task}, now)
	assert.NoError(t, err)
	assert.False(t, got)

	task.Priority = domain.TaskPriorityHigh
	got, err = ev.Evaluate(cond, TriggerContext{Task: task}, now)
	assert.NoError(t, err)
	assert.True(t, got)
}

func TestEvaluator_DocumentUploaded(t *testing.T) {
	now := time.Now()
	ev := NewEvaluator()

	cond := domain.TriggerCondition{
		Type:             domain.ConditionDocumentUploaded,
		FileNameContains: "contract",
	}

	doc := &domain.TransactionDocument{FileName: "Purchase-CONTRACT-v2.pdf"}
	got, err := ev.Evaluate(cond, TriggerContext{Document: doc}, now)
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = ev.Evaluate(cond, TriggerContext{}, now)
	assert.NoError(t, err)
	assert.False(t, got, "no document in context")

	// no filter matches any document
	any := domain.TriggerCondition{Type: domain.ConditionDocumentUploaded}
	got, err = ev.Evaluate(any, TriggerContext{Document: &domain.TransactionDocument{FileName: "x.pdf"}}, now)
	assert.NoError(t, err)
	assert.True(t, got)
}

func TestEvaluator_TimeBased(t *testing.T) {
	ev := NewEvaluator()

	cond := domain.TriggerCondition{
		Type:       domain.ConditionTimeBased,
		TimeOfDay:  "09:00",
		DaysOfWeek: []int{1, 2, 3, 4, 5},
	}

	// Saturday 2026-03-07 never matches regardless of time
	saturday := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Saturday, saturday.Weekday())
	got, err := ev.Evaluate(cond, TriggerContext{}, saturday)
	assert.NoError(t, err)
	assert.False(t, got)

	// Monday 09:00:30 inside the one-minute window
	monday := time.Date(2026, 3, 9, 9, 0, 30, 0, time.UTC)
	assert.Equal(t, time.Monday, monday.Weekday())
	got, err = ev.Evaluate(cond, TriggerContext{}, monday)
	assert.NoError(t, err)
	assert.True(t, got)

	// Monday 09:03 outside the default window but inside the sweep window
	late := time.Date(2026, 3, 9, 9, 3, 0, 0, time.UTC)
	got, err = ev.Evaluate(cond, TriggerContext{}, late)
	assert.NoError(t, err)
	assert.False(t, got)

	sweep := &Evaluator{Tolerance: SweepTimeTolerance}
	got, err = sweep.Evaluate(cond, TriggerContext{}, late)
	assert.NoError(t, err)
	assert.True(t, got)

	// malformed time of day is an error, not a match
	bad := domain.TriggerCondition{Type: domain.ConditionTimeBased, TimeOfDay: "morning"}
	got, err = ev.Evaluate(bad, TriggerContext{}, monday)
	assert.Error(t, err)
	assert.False(t, got)
}

func TestEvaluator_UnknownConditionType(t *testing.T) {
	ev := NewEvaluator()
	got, err := ev.Evaluate(domain.TriggerCondition{Type: "lunar_phase"}, TriggerContext{}, time.Now())
	assert.Error(t, err)
	assert.False(t, got)
}
