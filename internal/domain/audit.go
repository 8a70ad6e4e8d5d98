package domain

import "time"

// AuditAction represents the automation action being recorded
type AuditAction string

const (
	AuditActionTriggered AuditAction = "triggered"
	AuditActionApplied   AuditAction = "applied"
	AuditActionFailed    AuditAction = "failed"
	AuditActionRetried   AuditAction = "retried"
)

// AuditLogEntry represents an append-only record of an execution-related
// action. Entries are write-once.
type AuditLogEntry struct {
	ID            string            `json:"id"`
	ExecutionID   string            `json:"execution_id"`
	RuleID        string            `json:"rule_id"`
	TransactionID string            `json:"transaction_id"`
	Action        AuditAction       `json:"action"`
	Status        ExecutionStatus   `json:"status"`
	Details       map[string]string `json:"details,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewAuditLogEntry creates an audit entry for an execution action
func NewAuditLogEntry(executionID, ruleID, transactionID string, action AuditAction, status ExecutionStatus, details map[string]string) *AuditLogEntry {
	return &AuditLogEntry{
		ID:            NewID("audit"),
		ExecutionID:   executionID,
		RuleID:        ruleID,
		TransactionID: transactionID,
		Action:        action,
		Status:        status,
		Details:       details,
		CreatedAt:     time.Now(),
	}
}
