package domain

import (
	"time"
)

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusIntake        TransactionStatus = "intake"
	TransactionStatusActive        TransactionStatus = "active"
	TransactionStatusUnderContract TransactionStatus = "under_contract"
	TransactionStatusPendingClose  TransactionStatus = "pending_close"
	TransactionStatusClosed        TransactionStatus = "closed"
	TransactionStatusCancelled     TransactionStatus = "cancelled"
)

// OpenStatuses are the statuses considered open for automation sweeps.
var OpenStatuses = []TransactionStatus{
	TransactionStatusIntake,
	TransactionStatusActive,
	TransactionStatusUnderContract,
	TransactionStatusPendingClose,
}

// Transaction represents a real-estate transaction under coordination
type Transaction struct {
	ID              string            `json:"id"`
	PropertyAddress string            `json:"property_address"`
	Status          TransactionStatus `json:"status"`
	AgentID         string            `json:"agent_id"`
	ContractDate    *time.Time        `json:"contract_date,omitempty"`
	ClosingDate     *time.Time        `json:"closing_date,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewTransaction creates a new transaction in intake status
func NewTransaction(propertyAddress, agentID string) *Transaction {
	now := time.Now()
	return &Transaction{
		ID:              NewID("txn"),
		PropertyAddress: propertyAddress,
		Status:          TransactionStatusIntake,
		AgentID:         agentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsOpen reports whether the transaction is still subject to automation
func (t *Transaction) IsOpen() bool {
	for _, s := range OpenStatuses {
		if t.Status == s {
			return true
		}
	}
	return false
}

// ChangeStatus moves the transaction to a new status
func (t *Transaction) ChangeStatus(status TransactionStatus) error {
	if t.Status == TransactionStatusClosed || t.Status == TransactionStatusCancelled {
		return ErrTransactionClosed
	}
	if !validTransactionStatuses[status] {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

var validTransactionStatuses = map[TransactionStatus]bool{
	TransactionStatusIntake:        true,
	TransactionStatusActive:        true,
	TransactionStatusUnderContract: true,
	TransactionStatusPendingClose:  true,
	TransactionStatusClosed:        true,
	TransactionStatusCancelled:     true,
}

// TransactionFilter represents filters for listing transactions
type TransactionFilter struct {
	Status  *TransactionStatus `json:"status,omitempty"`
	AgentID *string            `json:"agent_id,omitempty"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

// Custom errors
var (
	ErrTransactionNotFound = NewDomainError("transaction not found")
	ErrTransactionClosed   = NewDomainError("cannot modify closed or cancelled transaction")
	ErrInvalidStatus       = NewDomainError("invalid status transition")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}
