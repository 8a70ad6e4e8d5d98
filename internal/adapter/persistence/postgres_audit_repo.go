package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresAuditRepository implements AuditRepository using PostgreSQL.
// The table is append-only; there are no update or delete paths.
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository creates a new PostgreSQL audit repository
func NewPostgresAuditRepository(db *sql.DB) ports.AuditRepository {
	return &PostgresAuditRepository{db: db}
}

const auditColumns = `id, execution_id, rule_id, transaction_id, action, status, details, created_at`

// Create appends a new audit entry
func (r *PostgresAuditRepository) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	var detailsJSON []byte
	var err error
	if len(entry.Details) > 0 {
		detailsJSON, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO automation_audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ExecutionID,
		entry.RuleID,
		entry.TransactionID,
		string(entry.Action),
		string(entry.Status),
		detailsJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// ListByExecution retrieves audit entries for an execution
func (r *PostgresAuditRepository) ListByExecution(ctx context.Context, executionID string) ([]*domain.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM automation_audit_logs WHERE execution_id = $1 ORDER BY created_at`
	return r.queryEntries(ctx, query, executionID)
}

// ListByTransaction retrieves audit entries for a transaction
func (r *PostgresAuditRepository) ListByTransaction(ctx context.Context, transactionID string, limit int) ([]*domain.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM automation_audit_logs WHERE transaction_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryEntries(ctx, query, transactionID, limit)
}

func (r *PostgresAuditRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]*domain.AuditLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditLogEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}

func scanAuditEntry(row rowScanner) (*domain.AuditLogEntry, error) {
	var entry domain.AuditLogEntry
	var detailsJSON []byte

	err := row.Scan(
		&entry.ID,
		&entry.ExecutionID,
		&entry.RuleID,
		&entry.TransactionID,
		&entry.Action,
		&entry.Status,
		&detailsJSON,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
		}
	}
	return &entry, nil
}
