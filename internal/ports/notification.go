package ports

import (
	"context"

	"github.com/dealdesk/dealdesk/internal/domain"
)

// DeliveryPayload carries the recipient-addressed content handed to a sender.
type DeliveryPayload struct {
	Recipients []string          `json:"recipients"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
}

// Sender delivers a payload over one channel (email, sms, calendar).
// Implementations are invoked by name through the dispatcher.
type Sender interface {
	// Name returns the channel name the sender is registered under
	Name() string

	// Send delivers the payload to a single recipient
	Send(ctx context.Context, recipient string, payload DeliveryPayload) error
}

// Dispatcher fans a payload out to a named sender, recipient by recipient.
// Per-recipient failures must not abort sibling deliveries.
type Dispatcher interface {
	// Dispatch delivers the payload via the sender registered under name
	Dispatch(ctx context.Context, name string, payload DeliveryPayload) error
}

// CalendarService creates calendar events for transaction milestones
type CalendarService interface {
	// CreateEvent creates a calendar event and returns its provider id
	CreateEvent(ctx context.Context, event CalendarEvent) (string, error)
}

// CalendarEvent represents a calendar event to be created
type CalendarEvent struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	StartsAt      string   `json:"starts_at"`
	EndsAt        string   `json:"ends_at"`
	Attendees     []string `json:"attendees,omitempty"`
	TransactionID string   `json:"transaction_id"`
}

// TemplateApplier applies a workflow template to a transaction, creating its
// task rows, and returns the workflow instance id.
type TemplateApplier interface {
	ApplyTemplate(ctx context.Context, transactionID, templateID string) (string, error)
}

// NotificationService records user-facing notifications for agents
type NotificationService interface {
	// NotifyWorkflowApplied notifies the owning agent that a workflow ran
	NotifyWorkflowApplied(ctx context.Context, txn *domain.Transaction, rule *domain.AutomationRule) error

	// NotifyWorkflowFailed notifies the owning agent that an automation failed
	NotifyWorkflowFailed(ctx context.Context, txn *domain.Transaction, rule *domain.AutomationRule, reason string) error
}
