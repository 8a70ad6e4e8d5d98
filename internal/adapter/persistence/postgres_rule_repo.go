package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresRuleRepository implements RuleRepository using PostgreSQL. The
// trigger condition is stored as a JSONB column keyed by its type tag.
type PostgresRuleRepository struct {
	db *sql.DB
}

// NewPostgresRuleRepository creates a new PostgreSQL rule repository
func NewPostgresRuleRepository(db *sql.DB) ports.RuleRepository {
	return &PostgresRuleRepository{db: db}
}

const ruleColumns = `id, name, active, trigger_event, condition, workflow_template_id, created_by, created_at, updated_at`

// Create saves a new automation rule
func (r *PostgresRuleRepository) Create(ctx context.Context, rule *domain.AutomationRule) error {
	condJSON, err := json.Marshal(rule.Condition)
	if err != nil {
		return fmt.Errorf("failed to marshal condition: %w", err)
	}

	query := `
		INSERT INTO automation_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		rule.Active,
		string(rule.TriggerEvent),
		condJSON,
		rule.WorkflowTemplateID,
		rule.CreatedBy,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// FindByID retrieves a rule by its ID
func (r *PostgresRuleRepository) FindByID(ctx context.Context, id string) (*domain.AutomationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM automation_rules WHERE id = $1`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to find rule: %w", err)
	}
	return rule, nil
}

// Update updates an existing rule
func (r *PostgresRuleRepository) Update(ctx context.Context, rule *domain.AutomationRule) error {
	condJSON, err := json.Marshal(rule.Condition)
	if err != nil {
		return fmt.Errorf("failed to marshal condition: %w", err)
	}

	query := `
		UPDATE automation_rules
		SET name = $2, active = $3, trigger_event = $4, condition = $5,
			workflow_template_id = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		rule.Active,
		string(rule.TriggerEvent),
		condJSON,
		rule.WorkflowTemplateID,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// Delete removes a rule
func (r *PostgresRuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM automation_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// List retrieves rules based on filter criteria
func (r *PostgresRuleRepository) List(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM automation_rules WHERE 1=1`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argIndex))
		args = append(args, *filter.Active)
		argIndex++
	}
	if filter.TriggerEvent != nil {
		conditions = append(conditions, fmt.Sprintf("trigger_event = $%d", argIndex))
		args = append(args, string(*filter.TriggerEvent))
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

	return r.queryRules(ctx, query, args...)
}

// ListActiveByEvent retrieves active rules for a trigger event kind
func (r *PostgresRuleRepository) ListActiveByEvent(ctx context.Context, event domain.TriggerEvent) ([]*domain.AutomationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM automation_rules WHERE active = TRUE AND trigger_event = $1 ORDER BY created_at`
	return r.queryRules(ctx, query, string(event))
}

func (r *PostgresRuleRepository) queryRules(ctx context.Context, query string, args ...interface{}) ([]*domain.AutomationRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.AutomationRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}
	return rules, nil
}

func scanRule(row rowScanner) (*domain.AutomationRule, error) {
	var rule domain.AutomationRule
	var condJSON []byte

	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Active,
		&rule.TriggerEvent,
		&condJSON,
		&rule.WorkflowTemplateID,
		&rule.CreatedBy,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(condJSON, &rule.Condition); err != nil {
		return nil, fmt.Errorf("failed to unmarshal condition: %w", err)
	}
	return &rule, nil
}
