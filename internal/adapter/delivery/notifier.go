package delivery

import (
	"context"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// AgentNotifier records in-app notifications for the owning agent and
// dispatches a copy over email. Email failures are logged, not returned:
// the in-app record is the source of truth.
type AgentNotifier struct {
	notifications ports.NotificationRepository
	dispatcher    ports.Dispatcher
	log           logger.Logger
}

// NewAgentNotifier creates a notification service backed by the
// notification store and the sender dispatcher
func NewAgentNotifier(notifications ports.NotificationRepository, dispatcher ports.Dispatcher, log logger.Logger) *AgentNotifier {
	return &AgentNotifier{
		notifications: notifications,
		dispatcher:    dispatcher,
		log:           log,
	}
}

// NotifyWorkflowApplied notifies the owning agent that a workflow ran
func (n *AgentNotifier) NotifyWorkflowApplied(ctx context.Context, txn *domain.Transaction, rule *domain.AutomationRule) error {
	subject := fmt.Sprintf("Workflow applied: %s", rule.Name)
	message := fmt.Sprintf("Automation rule %q applied a workflow to %s", rule.Name, txn.PropertyAddress)
	return n.notify(ctx, txn, subject, message)
}

// NotifyWorkflowFailed notifies the owning agent that an automation failed
func (n *AgentNotifier) NotifyWorkflowFailed(ctx context.Context, txn *domain.Transaction, rule *domain.AutomationRule, reason string) error {
	subject := fmt.Sprintf("Automation failed: %s", rule.Name)
	message := fmt.Sprintf("Automation rule %q failed on %s: %s", rule.Name, txn.PropertyAddress, reason)
	return n.notify(ctx, txn, subject, message)
}

func (n *AgentNotifier) notify(ctx context.Context, txn *domain.Transaction, subject, message string) error {
	record := domain.NewNotification(txn.AgentID, subject, message, domain.NotificationChannelInApp)
	if err := n.notifications.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	payload := ports.DeliveryPayload{
		Recipients: []string{txn.AgentID},
		Subject:    subject,
		Body:       message,
		Data: map[string]string{
			"transaction_id": txn.ID,
		},
	}
	if err := n.dispatcher.Dispatch(ctx, string(domain.NotificationChannelEmail), payload); err != nil {
		n.log.Warn(ctx, "email dispatch failed", map[string]interface{}{
			"transaction_id": txn.ID,
			"recipient":      txn.AgentID,
			"error":          err.Error(),
		})
	}
	return nil
}
