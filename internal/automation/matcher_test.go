package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
)

func TestMatcher_Match(t *testing.T) {
	now := time.Now()
	old := domain.TransactionStatusIntake
	next := domain.TransactionStatusActive

	matching := domain.NewAutomationRule("intake to active", domain.TriggerEventStatusChange,
		domain.TriggerCondition{
			Type:       domain.ConditionStatusChange,
			FromStatus: &old,
			ToStatus:   &next,
		}, "tmpl-1", "coord-1")
	nonMatching := domain.NewAutomationRule("to closed", domain.TriggerEventStatusChange,
		domain.TriggerCondition{
			Type:     domain.ConditionStatusChange,
			ToStatus: statusPtr(domain.TransactionStatusClosed),
		}, "tmpl-2", "coord-1")

	repo := new(MockRuleRepository)
	repo.On("ListActiveByEvent", context.Background(), domain.TriggerEventStatusChange).
		Return([]*domain.AutomationRule{matching, nonMatching}, nil)

	m := NewMatcher(repo, NewEvaluator(), logger.NewNop())

	tc := TriggerContext{
		Transaction: &domain.Transaction{ID: "txn-1"},
		OldStatus:   &old,
		NewStatus:   &next,
	}
	matched, err := m.Match(context.Background(), domain.TriggerEventStatusChange, tc, now)

	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, matching.ID, matched[0].ID)
	repo.AssertExpectations(t)
}

func TestMatcher_MalformedRuleDoesNotBlockOthers(t *testing.T) {
	now := time.Now()

	broken := domain.NewAutomationRule("broken", domain.TriggerEventTimeBased,
		domain.TriggerCondition{Type: "lunar_phase"}, "tmpl-1", "coord-1")
	healthy := domain.NewAutomationRule("healthy", domain.TriggerEventTimeBased,
		domain.TriggerCondition{Type: domain.ConditionDocumentUploaded}, "tmpl-2", "coord-1")

	repo := new(MockRuleRepository)
	repo.On("ListActiveByEvent", context.Background(), domain.TriggerEventDocumentUploaded).
		Return([]*domain.AutomationRule{broken, healthy}, nil)

	m := NewMatcher(repo, NewEvaluator(), logger.NewNop())

	tc := TriggerContext{Document: &domain.TransactionDocument{FileName: "deed.pdf"}}
	matched, err := m.Match(context.Background(), domain.TriggerEventDocumentUploaded, tc, now)

	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, healthy.ID, matched[0].ID)
}

func TestMatcher_StorageErrorPropagates(t *testing.T) {
	repo := new(MockRuleRepository)
	repo.On("ListActiveByEvent", context.Background(), domain.TriggerEventStatusChange).
		Return(nil, errors.New("connection refused"))

	m := NewMatcher(repo, NewEvaluator(), logger.NewNop())

	_, err := m.Match(context.Background(), domain.TriggerEventStatusChange, TriggerContext{}, time.Now())
	assert.Error(t, err)
}
