package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresTaskRepository implements TaskRepository using PostgreSQL
type PostgresTaskRepository struct {
	db *sql.DB
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository
func NewPostgresTaskRepository(db *sql.DB) ports.TaskRepository {
	return &PostgresTaskRepository{db: db}
}

const taskColumns = `id, transaction_id, workflow_instance_id, title, priority, due_date, completed, completed_at, created_at, updated_at`

// Create saves a new task
func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.TransactionTask) error {
	query := `
		INSERT INTO transaction_tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.TransactionID,
		task.WorkflowInstanceID,
		task.Title,
		string(task.Priority),
		task.DueDate,
		task.Completed,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id string) (*domain.TransactionTask, error) {
	query := `SELECT ` + taskColumns + ` FROM transaction_tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Update updates an existing task
func (r *PostgresTaskRepository) Update(ctx context.Context, task *domain.TransactionTask) error {
	query := `
		UPDATE transaction_tasks
		SET title = $2, priority = $3, due_date = $4, completed = $5,
			completed_at = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		string(task.Priority),
		task.DueDate,
		task.Completed,
		task.CompletedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// ListByTransaction retrieves all tasks for a transaction
func (r *PostgresTaskRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.TransactionTask, error) {
	query := `SELECT ` + taskColumns + ` FROM transaction_tasks WHERE transaction_id = $1 ORDER BY due_date NULLS LAST, created_at`

	rows, err := r.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.TransactionTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row rowScanner) (*domain.TransactionTask, error) {
	var task domain.TransactionTask
	var workflowInstanceID sql.NullString
	var dueDate, completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.TransactionID,
		&workflowInstanceID,
		&task.Title,
		&task.Priority,
		&dueDate,
		&task.Completed,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if workflowInstanceID.Valid {
		task.WorkflowInstanceID = &workflowInstanceID.String
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	return &task, nil
}
