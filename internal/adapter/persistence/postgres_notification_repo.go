package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresNotificationRepository implements NotificationRepository using PostgreSQL
type PostgresNotificationRepository struct {
	db *sql.DB
}

// NewPostgresNotificationRepository creates a new PostgreSQL notification repository
func NewPostgresNotificationRepository(db *sql.DB) ports.NotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Create saves a new notification
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient, subject, message, channel, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Recipient,
		n.Subject,
		n.Message,
		string(n.Channel),
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByRecipient retrieves notifications for a recipient
func (r *PostgresNotificationRepository) ListByRecipient(ctx context.Context, recipient string, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient, subject, message, channel, read, created_at
		FROM notifications
		WHERE recipient = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, recipient, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Subject, &n.Message, &n.Channel, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a notification as read
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewDomainError("notification not found")
	}
	return nil
}
