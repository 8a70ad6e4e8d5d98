package domain

import (
	"time"
)

// ExecutionStatus represents the status of a workflow execution
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusRetrying  ExecutionStatus = "retrying"
)

// MaxRetryAttempts caps how often a failed execution may be retried.
const MaxRetryAttempts = 3

// WorkflowExecution represents one recorded attempt to fire a rule against a
// transaction. Rows are never deleted.
type WorkflowExecution struct {
	ID            string                 `json:"id"`
	RuleID        string                 `json:"rule_id"`
	TransactionID string                 `json:"transaction_id"`
	Status        ExecutionStatus        `json:"status"`
	RetryCount    int                    `json:"retry_count"`
	ErrorMessage  *string                `json:"error_message,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	StartedAt     *time.Time             `json:"started_at,omitempty"`
	FinishedAt    *time.Time             `json:"finished_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// NewWorkflowExecution creates a pending execution for a rule/transaction pair
func NewWorkflowExecution(ruleID, transactionID string) *WorkflowExecution {
	now := time.Now()
	return &WorkflowExecution{
		ID:            NewID("exec"),
		RuleID:        ruleID,
		TransactionID: transactionID,
		Status:        ExecutionStatusPending,
		Metadata:      make(map[string]interface{}),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Start moves a pending or retrying execution to running
func (e *WorkflowExecution) Start() error {
	if e.Status != ExecutionStatusPending && e.Status != ExecutionStatusRetrying {
		return ErrExecutionNotStartable
	}
	now := time.Now()
	e.Status = ExecutionStatusRunning
	e.StartedAt = &now
	e.ErrorMessage = nil
	e.UpdatedAt = now
	return nil
}

// Complete marks a running execution completed
func (e *WorkflowExecution) Complete() error {
	if e.Status != ExecutionStatusRunning {
		return ErrExecutionNotRunning
	}
	now := time.Now()
	e.Status = ExecutionStatusCompleted
	e.FinishedAt = &now
	e.UpdatedAt = now
	return nil
}

// Fail marks a pending or running execution failed, recording the error
func (e *WorkflowExecution) Fail(message string) error {
	if e.Status != ExecutionStatusPending && e.Status != ExecutionStatusRunning {
		return ErrExecutionNotRunning
	}
	now := time.Now()
	e.Status = ExecutionStatusFailed
	e.ErrorMessage = &message
	e.FinishedAt = &now
	e.UpdatedAt = now
	return nil
}

// BeginRetry moves a failed execution to retrying, incrementing the retry
// counter. Refused once MaxRetryAttempts retries have been consumed.
func (e *WorkflowExecution) BeginRetry() error {
	if e.Status != ExecutionStatusFailed {
		return ErrExecutionNotRetryable
	}
	if e.RetryCount >= MaxRetryAttempts {
		return ErrRetryExhausted
	}
	e.RetryCount++
	e.Status = ExecutionStatusRetrying
	e.FinishedAt = nil
	e.UpdatedAt = time.Now()
	return nil
}

// ExecutionFilter represents filters for listing executions
type ExecutionFilter struct {
	RuleID        *string          `json:"rule_id,omitempty"`
	TransactionID *string          `json:"transaction_id,omitempty"`
	Status        *ExecutionStatus `json:"status,omitempty"`
	Limit         int              `json:"limit"`
	Offset        int              `json:"offset"`
}

var (
	ErrExecutionNotFound     = NewDomainError("workflow execution not found")
	ErrExecutionNotStartable = NewDomainError("execution is not pending or retrying")
	ErrExecutionNotRunning   = NewDomainError("execution is not running")
	ErrExecutionNotRetryable = NewDomainError("only failed executions can be retried")
	ErrRetryExhausted        = NewDomainError("retry limit reached for execution")
)
