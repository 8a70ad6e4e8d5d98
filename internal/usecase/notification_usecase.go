package usecase

import (
	"context"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// NotificationUseCase handles in-app notification reads
type NotificationUseCase struct {
	notifications ports.NotificationRepository
}

// NewNotificationUseCase creates a new notification use case
func NewNotificationUseCase(notifications ports.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications}
}

// ListNotifications retrieves notifications for a recipient
func (uc *NotificationUseCase) ListNotifications(ctx context.Context, recipient string, limit, offset int) ([]*domain.Notification, error) {
	if recipient == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if limit <= 0 {
		limit = 20
	}

	notifications, err := uc.notifications.ListByRecipient(ctx, recipient, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a notification as read
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	if err := uc.notifications.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
