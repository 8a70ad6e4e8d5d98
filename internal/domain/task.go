package domain

import (
	"time"
)

// TaskPriority represents the priority of a transaction task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TransactionTask represents a checklist task attached to a transaction
type TransactionTask struct {
	ID                 string       `json:"id"`
	TransactionID      string       `json:"transaction_id"`
	WorkflowInstanceID *string      `json:"workflow_instance_id,omitempty"`
	Title              string       `json:"title"`
	Priority           TaskPriority `json:"priority"`
	DueDate            *time.Time   `json:"due_date,omitempty"`
	Completed          bool         `json:"completed"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// NewTransactionTask creates a new incomplete task for a transaction
func NewTransactionTask(transactionID, title string, priority TaskPriority, dueDate *time.Time) *TransactionTask {
	now := time.Now()
	return &TransactionTask{
		ID:            NewID("task"),
		TransactionID: transactionID,
		Title:         title,
		Priority:      priority,
		DueDate:       dueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Complete marks the task as completed
func (t *TransactionTask) Complete() error {
	if t.Completed {
		return ErrTaskAlreadyCompleted
	}
	now := time.Now()
	t.Completed = true
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

var (
	ErrTaskNotFound         = NewDomainError("task not found")
	ErrTaskAlreadyCompleted = NewDomainError("task already completed")
)
