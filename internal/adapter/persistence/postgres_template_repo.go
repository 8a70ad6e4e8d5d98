package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresTemplateRepository implements TemplateRepository using PostgreSQL.
// Template task definitions are stored inline as a JSONB array.
type PostgresTemplateRepository struct {
	db *sql.DB
}

// NewPostgresTemplateRepository creates a new PostgreSQL template repository
func NewPostgresTemplateRepository(db *sql.DB) ports.TemplateRepository {
	return &PostgresTemplateRepository{db: db}
}

// Create saves a new workflow template
func (r *PostgresTemplateRepository) Create(ctx context.Context, tmpl *domain.WorkflowTemplate) error {
	tasksJSON, err := json.Marshal(tmpl.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal template tasks: %w", err)
	}

	query := `
		INSERT INTO workflow_templates (id, name, tasks, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		tmpl.ID,
		tmpl.Name,
		tasksJSON,
		tmpl.CreatedBy,
		tmpl.CreatedAt,
		tmpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// FindByID retrieves a template by its ID
func (r *PostgresTemplateRepository) FindByID(ctx context.Context, id string) (*domain.WorkflowTemplate, error) {
	query := `SELECT id, name, tasks, created_by, created_at, updated_at FROM workflow_templates WHERE id = $1`

	tmpl, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return tmpl, nil
}

// List retrieves all templates
func (r *PostgresTemplateRepository) List(ctx context.Context, limit, offset int) ([]*domain.WorkflowTemplate, error) {
	query := `SELECT id, name, tasks, created_by, created_at, updated_at FROM workflow_templates ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var tmpls []*domain.WorkflowTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		tmpls = append(tmpls, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}
	return tmpls, nil
}

func scanTemplate(row rowScanner) (*domain.WorkflowTemplate, error) {
	var tmpl domain.WorkflowTemplate
	var tasksJSON []byte

	err := row.Scan(
		&tmpl.ID,
		&tmpl.Name,
		&tasksJSON,
		&tmpl.CreatedBy,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tasksJSON, &tmpl.Tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template tasks: %w", err)
	}
	return &tmpl, nil
}
