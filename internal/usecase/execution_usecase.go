package usecase

import (
	"context"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/automation"
	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// ExecutionUseCase exposes execution history, the audit trail and manual
// retry of failed executions
type ExecutionUseCase struct {
	executions ports.ExecutionRepository
	audits     ports.AuditRepository
	executor   *automation.Executor
}

// NewExecutionUseCase creates a new execution use case
func NewExecutionUseCase(executions ports.ExecutionRepository, audits ports.AuditRepository, executor *automation.Executor) *ExecutionUseCase {
	return &ExecutionUseCase{
		executions: executions,
		audits:     audits,
		executor:   executor,
	}
}

// GetExecution retrieves an execution by ID
func (uc *ExecutionUseCase) GetExecution(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	if id == "" {
		return nil, fmt.Errorf("execution ID is required")
	}
	exec, err := uc.executions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return exec, nil
}

// ListExecutions retrieves executions based on filter criteria
func (uc *ExecutionUseCase) ListExecutions(ctx context.Context, filter domain.ExecutionFilter) ([]*domain.WorkflowExecution, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	execs, err := uc.executions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return execs, nil
}

// RetryExecution re-runs a failed execution, bounded by the retry cap
func (uc *ExecutionUseCase) RetryExecution(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	if id == "" {
		return nil, fmt.Errorf("execution ID is required")
	}
	return uc.executor.Retry(ctx, id)
}

// ListAuditLog retrieves the audit trail for an execution
func (uc *ExecutionUseCase) ListAuditLog(ctx context.Context, executionID string) ([]*domain.AuditLogEntry, error) {
	if executionID == "" {
		return nil, fmt.Errorf("execution ID is required")
	}
	entries, err := uc.audits.ListByExecution(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// ListTransactionAudit retrieves the audit trail for a transaction
func (uc *ExecutionUseCase) ListTransactionAudit(ctx context.Context, transactionID string, limit int) ([]*domain.AuditLogEntry, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if limit <= 0 {
		limit = 100
	}
	entries, err := uc.audits.ListByTransaction(ctx, transactionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
