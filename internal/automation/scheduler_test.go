package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
)

type schedulerFixture struct {
	*executorFixture
	scheduler *Scheduler
}

func newSchedulerFixture() *schedulerFixture {
	ef := newExecutorFixture()
	return &schedulerFixture{
		executorFixture: ef,
		scheduler:       NewScheduler(ef.transactions, ef.rules, ef.executions, ef.executor, logger.NewNop()),
	}
}

func dateRule(offsetDays int, offsetType domain.OffsetType) *domain.AutomationRule {
	return domain.NewAutomationRule("closing reminder", domain.TriggerEventDateBased,
		domain.TriggerCondition{
			Type:       domain.ConditionClosingDateOffset,
			OffsetDays: offsetDays,
			OffsetType: offsetType,
		}, "tmpl-1", "coord-1")
}

func TestScheduler_SweepFiresQualifyingPair(t *testing.T) {
	f := newSchedulerFixture()
	now := time.Date(2026, 4, 13, 10, 0, 0, 0, time.UTC)

	closing := now.AddDate(0, 0, 7)
	txn := domain.NewTransaction("12 Elm St", "agent-1")
	txn.Status = domain.TransactionStatusUnderContract
	txn.ClosingDate = &closing

	rule := dateRule(7, domain.OffsetBefore)

	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventDateBased).
		Return([]*domain.AutomationRule{rule}, nil)
	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventTimeBased).
		Return([]*domain.AutomationRule{}, nil)
	f.transactions.On("ListOpen", mock.Anything).Return([]*domain.Transaction{txn}, nil)
	f.executions.On("ExistsForDay", mock.Anything, rule.ID, txn.ID, now).Return(false, nil)

	// executor collaborators
	f.executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.executions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.applier.On("ApplyTemplate", mock.Anything, txn.ID, "tmpl-1").Return("wf-1", nil)
	f.notifier.On("NotifyWorkflowApplied", mock.Anything, txn, rule).Return(nil)

	fired, err := f.scheduler.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestScheduler_SweepSameDayGuard(t *testing.T) {
	f := newSchedulerFixture()
	now := time.Date(2026, 4, 13, 10, 0, 0, 0, time.UTC)

	closing := now.AddDate(0, 0, 7)
	txn := domain.NewTransaction("12 Elm St", "agent-1")
	txn.ClosingDate = &closing

	rule := dateRule(7, domain.OffsetBefore)

	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventDateBased).
		Return([]*domain.AutomationRule{rule}, nil)
	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventTimeBased).
		Return([]*domain.AutomationRule{}, nil)
	f.transactions.On("ListOpen", mock.Anything).Return([]*domain.Transaction{txn}, nil)
	f.executions.On("ExistsForDay", mock.Anything, rule.ID, txn.ID, now).Return(true, nil)

	fired, err := f.scheduler.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 0, fired)
	f.executions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestScheduler_SweepNonQualifyingDate(t *testing.T) {
	f := newSchedulerFixture()
	now := time.Date(2026, 4, 13, 10, 0, 0, 0, time.UTC)

	closing := now.AddDate(0, 0, 10) // not within the 7-day window today
	txn := domain.NewTransaction("12 Elm St", "agent-1")
	txn.ClosingDate = &closing

	rule := dateRule(7, domain.OffsetBefore)

	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventDateBased).
		Return([]*domain.AutomationRule{rule}, nil)
	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventTimeBased).
		Return([]*domain.AutomationRule{}, nil)
	f.transactions.On("ListOpen", mock.Anything).Return([]*domain.Transaction{txn}, nil)

	fired, err := f.scheduler.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 0, fired)
	f.executions.AssertNotCalled(t, "ExistsForDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_SweepContinuesPastFailingPair(t *testing.T) {
	f := newSchedulerFixture()
	now := time.Date(2026, 4, 13, 10, 0, 0, 0, time.UTC)

	closing := now.AddDate(0, 0, 7)
	txnA := domain.NewTransaction("12 Elm St", "agent-1")
	txnA.ClosingDate = &closing
	txnB := domain.NewTransaction("9 Oak Ave", "agent-2")
	txnB.ClosingDate = &closing

	rule := dateRule(7, domain.OffsetBefore)

	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventDateBased).
		Return([]*domain.AutomationRule{rule}, nil)
	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventTimeBased).
		Return([]*domain.AutomationRule{}, nil)
	f.transactions.On("ListOpen", mock.Anything).Return([]*domain.Transaction{txnA, txnB}, nil)
	f.executions.On("ExistsForDay", mock.Anything, rule.ID, mock.Anything, now).Return(false, nil)

	f.executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.executions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	// first transaction's template application blows up, second succeeds
	f.applier.On("ApplyTemplate", mock.Anything, txnA.ID, "tmpl-1").Return("", errors.New("provider down"))
	f.applier.On("ApplyTemplate", mock.Anything, txnB.ID, "tmpl-1").Return("wf-2", nil)
	f.transactions.On("FindByID", mock.Anything, txnA.ID).Return(txnA, nil)
	f.rules.On("FindByID", mock.Anything, rule.ID).Return(rule, nil)
	f.notifier.On("NotifyWorkflowFailed", mock.Anything, txnA, rule, mock.Anything).Return(nil)
	f.notifier.On("NotifyWorkflowApplied", mock.Anything, txnB, rule).Return(nil)

	fired, err := f.scheduler.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	f.applier.AssertExpectations(t)
}

func TestScheduler_SweepRuleLoadFailureAborts(t *testing.T) {
	f := newSchedulerFixture()

	f.rules.On("ListActiveByEvent", mock.Anything, domain.TriggerEventDateBased).
		Return(nil, errors.New("connection refused"))

	_, err := f.scheduler.Sweep(context.Background(), time.Now())
	assert.Error(t, err)
}
