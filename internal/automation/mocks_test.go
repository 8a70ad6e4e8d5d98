package automation

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dealdesk/dealdesk/internal/domain"
)

// Shared hand-written mocks for the port interfaces the engine consumes.

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.AutomationRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepository) FindByID(ctx context.Context, id string) (*domain.AutomationRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutomationRule), args.Error(1)
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *domain.AutomationRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRuleRepository) List(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AutomationRule), args.Error(1)
}

func (m *MockRuleRepository) ListActiveByEvent(ctx context.Context, event domain.TriggerEvent) ([]*domain.AutomationRule, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AutomationRule), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListOpen(ctx context.Context) ([]*domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter domain.TransactionFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) Create(ctx context.Context, exec *domain.WorkflowExecution) error {
	return m.Called(ctx, exec).Error(0)
}

func (m *MockExecutionRepository) FindByID(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowExecution), args.Error(1)
}

func (m *MockExecutionRepository) Update(ctx context.Context, exec *domain.WorkflowExecution) error {
	return m.Called(ctx, exec).Error(0)
}

func (m *MockExecutionRepository) List(ctx context.Context, filter domain.ExecutionFilter) ([]*domain.WorkflowExecution, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkflowExecution), args.Error(1)
}

func (m *MockExecutionRepository) ExistsForDay(ctx context.Context, ruleID, transactionID string, day time.Time) (bool, error) {
	args := m.Called(ctx, ruleID, transactionID, day)
	return args.Bool(0), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRepository) ListByExecution(ctx context.Context, executionID string) ([]*domain.AuditLogEntry, error) {
	args := m.Called(ctx, executionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditLogEntry), args.Error(1)
}

func (m *MockAuditRepository) ListByTransaction(ctx context.Context, transactionID string, limit int) ([]*domain.AuditLogEntry, error) {
	args := m.Called(ctx, transactionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditLogEntry), args.Error(1)
}

type MockTemplateApplier struct {
	mock.Mock
}

func (m *MockTemplateApplier) ApplyTemplate(ctx context.Context, transactionID, templateID string) (string, error) {
	args := m.Called(ctx, transactionID, templateID)
	return args.String(0), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyWorkflowApplied(ctx context.Context, txn *domain.Transaction, rule *domain.AutomationRule) error {
	return m.Called(ctx, txn, rule).Error(0)
}

func (m *MockNotificationService) NotifyWorkflowFailed(ctx context.Context, txn *domain.Transaction, rule *domain.AutomationRule, reason string) error {
	return m.Called(ctx, txn, rule, reason).Error(0)
}
