package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresExecutionRepository implements ExecutionRepository using PostgreSQL
type PostgresExecutionRepository struct {
	db *sql.DB
}

// NewPostgresExecutionRepository creates a new PostgreSQL execution repository
func NewPostgresExecutionRepository(db *sql.DB) ports.ExecutionRepository {
	return &PostgresExecutionRepository{db: db}
}

const executionColumns = `id, rule_id, transaction_id, status, retry_count, error_message, metadata, started_at, finished_at, created_at, updated_at`

// Create saves a new execution row
func (r *PostgresExecutionRepository) Create(ctx context.Context, exec *domain.WorkflowExecution) error {
	metaJSON, err := marshalMetadata(exec.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workflow_executions (` + executionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx, query,
		exec.ID,
		exec.RuleID,
		exec.TransactionID,
		string(exec.Status),
		exec.RetryCount,
		exec.ErrorMessage,
		metaJSON,
		exec.StartedAt,
		exec.FinishedAt,
		exec.CreatedAt,
		exec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}
	return nil
}

// FindByID retrieves an execution by its ID
func (r *PostgresExecutionRepository) FindByID(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM workflow_executions WHERE id = $1`

	exec, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, fmt.Errorf("failed to find execution: %w", err)
	}
	return exec, nil
}

// Update updates an existing execution
func (r *PostgresExecutionRepository) Update(ctx context.Context, exec *domain.WorkflowExecution) error {
	metaJSON, err := marshalMetadata(exec.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE workflow_executions
		SET status = $2, retry_count = $3, error_message = $4, metadata = $5,
			started_at = $6, finished_at = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		exec.ID,
		string(exec.Status),
		exec.RetryCount,
		exec.ErrorMessage,
		metaJSON,
		exec.StartedAt,
		exec.FinishedAt,
		exec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update execution: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrExecutionNotFound
	}
	return nil
}

// List retrieves executions based on filter criteria
func (r *PostgresExecutionRepository) List(ctx context.Context, filter domain.ExecutionFilter) ([]*domain.WorkflowExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM workflow_executions WHERE 1=1`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.RuleID != nil {
		conditions = append(conditions, fmt.Sprintf("rule_id = $%d", argIndex))
		args = append(args, *filter.RuleID)
		argIndex++
	}
	if filter.TransactionID != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_id = $%d", argIndex))
		args = append(args, *filter.TransactionID)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*filter.Status))
		argIndex++
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	var execs []*domain.WorkflowExecution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		execs = append(execs, exec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}
	return execs, nil
}

// ExistsForDay reports whether any execution exists for the rule and
// transaction within the calendar day containing the given instant. This is
// the same-day duplicate guard: a plain existence read, not a constraint.
func (r *PostgresExecutionRepository) ExistsForDay(ctx context.Context, ruleID, transactionID string, day time.Time) (bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM workflow_executions
			WHERE rule_id = $1 AND transaction_id = $2
			AND created_at >= $3 AND created_at < $4
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ruleID, transactionID, dayStart, dayEnd).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check same-day execution: %w", err)
	}
	return exists, nil
}

func marshalMetadata(meta map[string]interface{}) ([]byte, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return b, nil
}

func scanExecution(row rowScanner) (*domain.WorkflowExecution, error) {
	var exec domain.WorkflowExecution
	var errorMessage sql.NullString
	var metaJSON []byte
	var startedAt, finishedAt sql.NullTime

	err := row.Scan(
		&exec.ID,
		&exec.RuleID,
		&exec.TransactionID,
		&exec.Status,
		&exec.RetryCount,
		&errorMessage,
		&metaJSON,
		&startedAt,
		&finishedAt,
		&exec.CreatedAt,
		&exec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if errorMessage.Valid {
		exec.ErrorMessage = &errorMessage.String
	}
	if startedAt.Valid {
		exec.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		exec.FinishedAt = &finishedAt.Time
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &exec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	} else {
		exec.Metadata = make(map[string]interface{})
	}
	return &exec, nil
}
