package ports

import (
	"context"
	"time"

	"github.com/dealdesk/dealdesk/internal/domain"
)

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// Create saves a new transaction
	Create(ctx context.Context, txn *domain.Transaction) error

	// FindByID retrieves a transaction by its ID
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)

	// Update updates an existing transaction
	Update(ctx context.Context, txn *domain.Transaction) error

	// List retrieves transactions based on filter criteria
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)

	// ListOpen retrieves all transactions in an open status
	ListOpen(ctx context.Context) ([]*domain.Transaction, error)

	// Count returns the number of transactions matching the filter
	Count(ctx context.Context, filter domain.TransactionFilter) (int, error)
}

// RuleRepository defines the interface for automation rule persistence
type RuleRepository interface {
	// Create saves a new automation rule
	Create(ctx context.Context, rule *domain.AutomationRule) error

	// FindByID retrieves a rule by its ID
	FindByID(ctx context.Context, id string) (*domain.AutomationRule, error)

	// Update updates an existing rule
	Update(ctx context.Context, rule *domain.AutomationRule) error

	// Delete removes a rule
	Delete(ctx context.Context, id string) error

	// List retrieves rules based on filter criteria
	List(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, error)

	// ListActiveByEvent retrieves active rules for a trigger event kind
	ListActiveByEvent(ctx context.Context, event domain.TriggerEvent) ([]*domain.AutomationRule, error)
}

// TemplateRepository defines the interface for workflow template persistence
type TemplateRepository interface {
	// Create saves a new workflow template
	Create(ctx context.Context, tmpl *domain.WorkflowTemplate) error

	// FindByID retrieves a template by its ID
	FindByID(ctx context.Context, id string) (*domain.WorkflowTemplate, error)

	// List retrieves all templates
	List(ctx context.Context, limit, offset int) ([]*domain.WorkflowTemplate, error)
}

// TaskRepository defines the interface for transaction task persistence
type TaskRepository interface {
	// Create saves a new task
	Create(ctx context.Context, task *domain.TransactionTask) error

	// FindByID retrieves a task by its ID
	FindByID(ctx context.Context, id string) (*domain.TransactionTask, error)

	// Update updates an existing task
	Update(ctx context.Context, task *domain.TransactionTask) error

	// ListByTransaction retrieves all tasks for a transaction
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.TransactionTask, error)
}

// DocumentRepository defines the interface for transaction document persistence
type DocumentRepository interface {
	// Create saves a new document record
	Create(ctx context.Context, doc *domain.TransactionDocument) error

	// ListByTransaction retrieves all documents for a transaction
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.TransactionDocument, error)
}

// ExecutionRepository defines the interface for workflow execution persistence
type ExecutionRepository interface {
	// Create saves a new execution row
	Create(ctx context.Context, exec *domain.WorkflowExecution) error

	// FindByID retrieves an execution by its ID
	FindByID(ctx context.Context, id string) (*domain.WorkflowExecution, error)

	// Update updates an existing execution
	Update(ctx context.Context, exec *domain.WorkflowExecution) error

	// List retrieves executions based on filter criteria
	List(ctx context.Context, filter domain.ExecutionFilter) ([]*domain.WorkflowExecution, error)

	// ExistsForDay reports whether any execution exists for the rule and
	// transaction within the calendar day containing the given instant.
	ExistsForDay(ctx context.Context, ruleID, transactionID string, day time.Time) (bool, error)
}

// AuditRepository defines the interface for automation audit log persistence
type AuditRepository interface {
	// Create appends a new audit entry
	Create(ctx context.Context, entry *domain.AuditLogEntry) error

	// ListByExecution retrieves audit entries for an execution
	ListByExecution(ctx context.Context, executionID string) ([]*domain.AuditLogEntry, error)

	// ListByTransaction retrieves audit entries for a transaction
	ListByTransaction(ctx context.Context, transactionID string, limit int) ([]*domain.AuditLogEntry, error)
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create saves a new notification
	Create(ctx context.Context, n *domain.Notification) error

	// ListByRecipient retrieves notifications for a recipient
	ListByRecipient(ctx context.Context, recipient string, limit, offset int) ([]*domain.Notification, error)

	// MarkRead marks a notification as read
	MarkRead(ctx context.Context, id string) error
}
