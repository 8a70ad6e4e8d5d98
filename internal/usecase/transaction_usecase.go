package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdesk/dealdesk/internal/automation"
	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// CreateTransactionRequest represents the request to create a transaction
type CreateTransactionRequest struct {
	PropertyAddress string     `json:"property_address" validate:"required"`
	AgentID         string     `json:"agent_id" validate:"required"`
	ContractDate    *time.Time `json:"contract_date,omitempty"`
	ClosingDate     *time.Time `json:"closing_date,omitempty"`
}

// TransactionUseCase handles transaction-related business logic
type TransactionUseCase struct {
	transactions ports.TransactionRepository
	auto         *AutomationService
	calendar     ports.CalendarService
	log          logger.Logger
}

// NewTransactionUseCase creates a new transaction use case. The calendar
// service is optional; pass nil to skip closing-date calendar events.
func NewTransactionUseCase(transactions ports.TransactionRepository, auto *AutomationService, calendar ports.CalendarService, log logger.Logger) *TransactionUseCase {
	return &TransactionUseCase{
		transactions: transactions,
		auto:         auto,
		calendar:     calendar,
		log:          log,
	}
}

// CreateTransaction creates a new transaction in intake status
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error) {
	if req.PropertyAddress == "" {
		return nil, fmt.Errorf("property address is required")
	}
	if req.AgentID == "" {
		return nil, fmt.Errorf("agent ID is required")
	}

	txn := domain.NewTransaction(req.PropertyAddress, req.AgentID)
	txn.ContractDate = req.ContractDate
	txn.ClosingDate = req.ClosingDate

	if err := uc.transactions.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

// GetTransaction retrieves a transaction by ID
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	txn, err := uc.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions retrieves transactions based on filter criteria
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	txns, err := uc.transactions.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	count, err := uc.transactions.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return txns, count, nil
}

// UpdateStatus moves a transaction to a new status and fires any
// status_change automation rules for the transition
func (uc *TransactionUseCase) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) (*domain.Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	txn, err := uc.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	oldStatus := txn.Status
	if err := txn.ChangeStatus(status); err != nil {
		return nil, fmt.Errorf("failed to change status: %w", err)
	}

	if err := uc.transactions.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	if uc.auto != nil {
		newStatus := txn.Status
		uc.auto.FireEvent(ctx, domain.TriggerEventStatusChange, automation.TriggerContext{
			Transaction: txn,
			OldStatus:   &oldStatus,
			NewStatus:   &newStatus,
		})
	}
	return txn, nil
}

// UpdateDates sets the contract and/or closing dates on a transaction
func (uc *TransactionUseCase) UpdateDates(ctx context.Context, id string, contractDate, closingDate *time.Time) (*domain.Transaction, error) {
	txn, err := uc.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if contractDate != nil {
		txn.ContractDate = contractDate
	}
	if closingDate != nil {
		txn.ClosingDate = closingDate
	}
	txn.UpdatedAt = time.Now()

	if err := uc.transactions.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	// Closing date changes produce a calendar event for the agent.
	// Calendar failures never fail the update.
	if uc.calendar != nil && closingDate != nil {
		event := ports.CalendarEvent{
			Title:         fmt.Sprintf("Closing: %s", txn.PropertyAddress),
			StartsAt:      closingDate.Format(time.RFC3339),
			EndsAt:        closingDate.Add(time.Hour).Format(time.RFC3339),
			Attendees:     []string{txn.AgentID},
			TransactionID: txn.ID,
		}
		if _, err := uc.calendar.CreateEvent(ctx, event); err != nil && uc.log != nil {
			uc.log.Warn(ctx, "calendar event creation failed", map[string]interface{}{
				"transaction_id": txn.ID,
				"error":          err.Error(),
			})
		}
	}
	return txn, nil
}
