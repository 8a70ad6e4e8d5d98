package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
)

type executorFixture struct {
	transactions *MockTransactionRepository
	rules        *MockRuleRepository
	executions   *MockExecutionRepository
	audits       *MockAuditRepository
	applier      *MockTemplateApplier
	notifier     *MockNotificationService
	executor     *Executor
}

func newExecutorFixture() *executorFixture {
	f := &executorFixture{
		transactions: new(MockTransactionRepository),
		rules:        new(MockRuleRepository),
		executions:   new(MockExecutionRepository),
		audits:       new(MockAuditRepository),
		applier:      new(MockTemplateApplier),
		notifier:     new(MockNotificationService),
	}
	f.executor = NewExecutor(f.transactions, f.rules, f.executions, f.audits, f.applier, f.notifier, logger.NewNop())
	return f
}

func testRule() *domain.AutomationRule {
	return domain.NewAutomationRule("apply closing checklist", domain.TriggerEventDateBased,
		domain.TriggerCondition{
			Type:       domain.ConditionClosingDateOffset,
			OffsetDays: 7,
			OffsetType: domain.OffsetBefore,
		}, "tmpl-closing", "coord-1")
}

func TestExecutor_ExecuteSuccess(t *testing.T) {
	f := newExecutorFixture()
	rule := testRule()
	txn := domain.NewTransaction("12 Elm St", "agent-1")

	f.executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.executions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.applier.On("ApplyTemplate", mock.Anything, txn.ID, "tmpl-closing").Return("wf-1", nil)
	f.notifier.On("NotifyWorkflowApplied", mock.Anything, txn, rule).Return(nil)

	exec, err := f.executor.Execute(context.Background(), rule, txn)

	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusCompleted, exec.Status)
	assert.Equal(t, "wf-1", exec.Metadata["workflow_instance_id"])
	f.applier.AssertExpectations(t)
	f.notifier.AssertExpectations(t)

	// triggered + applied audit entries
	f.audits.AssertNumberOfCalls(t, "Create", 2)
}

func TestExecutor_ExecuteTemplateFailure(t *testing.T) {
	f := newExecutorFixture()
	rule := testRule()
	txn := domain.NewTransaction("12 Elm St", "agent-1")

	f.executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.executions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.applier.On("ApplyTemplate", mock.Anything, txn.ID, "tmpl-closing").Return("", errors.New("template missing"))
	f.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	f.rules.On("FindByID", mock.Anything, rule.ID).Return(rule, nil)
	f.notifier.On("NotifyWorkflowFailed", mock.Anything, txn, rule, mock.Anything).Return(nil)

	exec, err := f.executor.Execute(context.Background(), rule, txn)

	require.Error(t, err)
	assert.Equal(t, domain.ExecutionStatusFailed, exec.Status)
	require.NotNil(t, exec.ErrorMessage)
	assert.Contains(t, *exec.ErrorMessage, "template missing")
}

func TestExecutor_RetrySuccess(t *testing.T) {
	f := newExecutorFixture()
	rule := testRule()
	txn := domain.NewTransaction("12 Elm St", "agent-1")

	exec := domain.NewWorkflowExecution(rule.ID, txn.ID)
	_ = exec.Start()
	_ = exec.Fail("flaky provider")

	f.executions.On("FindByID", mock.Anything, exec.ID).Return(exec, nil)
	f.executions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.rules.On("FindByID", mock.Anything, rule.ID).Return(rule, nil)
	f.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	f.applier.On("ApplyTemplate", mock.Anything, txn.ID, "tmpl-closing").Return("wf-2", nil)
	f.notifier.On("NotifyWorkflowApplied", mock.Anything, txn, rule).Return(nil)

	got, err := f.executor.Retry(context.Background(), exec.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusCompleted, got.Status)
	assert.Equal(t, 1, got.RetryCount)
}

func TestExecutor_RetryExhausted(t *testing.T) {
	f := newExecutorFixture()

	exec := domain.NewWorkflowExecution("rule-1", "txn-1")
	_ = exec.Start()
	_ = exec.Fail("boom")
	exec.RetryCount = domain.MaxRetryAttempts

	f.executions.On("FindByID", mock.Anything, exec.ID).Return(exec, nil)

	_, err := f.executor.Retry(context.Background(), exec.ID)

	assert.ErrorIs(t, err, domain.ErrRetryExhausted)
	// no attempt recorded: neither the execution row nor the audit log written
	f.executions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecutor_RetryNonFailedExecution(t *testing.T) {
	f := newExecutorFixture()

	exec := domain.NewWorkflowExecution("rule-1", "txn-1")

	f.executions.On("FindByID", mock.Anything, exec.ID).Return(exec, nil)

	_, err := f.executor.Retry(context.Background(), exec.ID)
	assert.ErrorIs(t, err, domain.ErrExecutionNotRetryable)
}
