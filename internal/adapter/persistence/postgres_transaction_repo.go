package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresTransactionRepository implements TransactionRepository using PostgreSQL
type PostgresTransactionRepository struct {
	db *sql.DB
}

// NewPostgresTransactionRepository creates a new PostgreSQL transaction repository
func NewPostgresTransactionRepository(db *sql.DB) ports.TransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

const transactionColumns = `id, property_address, status, agent_id, contract_date, closing_date, created_at, updated_at`

// Create saves a new transaction
func (r *PostgresTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.PropertyAddress,
		string(txn.Status),
		txn.AgentID,
		txn.ContractDate,
		txn.ClosingDate,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by its ID
func (r *PostgresTransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return txn, nil
}

// Update updates an existing transaction
func (r *PostgresTransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET property_address = $2, status = $3, agent_id = $4,
			contract_date = $5, closing_date = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.PropertyAddress,
		string(txn.Status),
		txn.AgentID,
		txn.ContractDate,
		txn.ClosingDate,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// List retrieves transactions based on filter criteria
func (r *PostgresTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`

	conditions, args := transactionConditions(filter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	argIndex := len(args) + 1
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
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

// ListOpen retrieves all transactions in an open status
func (r *PostgresTransactionRepository) ListOpen(ctx context.Context) ([]*domain.Transaction, error) {
	statuses := make([]string, len(domain.OpenStatuses))
	for i, s := range domain.OpenStatuses {
		statuses[i] = string(s)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = ANY($1) ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to query open transactions: %w", err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

// Count returns the number of transactions matching the filter
func (r *PostgresTransactionRepository) Count(ctx context.Context, filter domain.TransactionFilter) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE 1=1`

	conditions, args := transactionConditions(filter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func transactionConditions(filter domain.TransactionFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*filter.Status))
		argIndex++
	}
	if filter.AgentID != nil {
		conditions = append(conditions, fmt.Sprintf("agent_id = $%d", argIndex))
		args = append(args, *filter.AgentID)
		argIndex++
	}
	return conditions, args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var txn domain.Transaction
	var contractDate, closingDate sql.NullTime

	err := row.Scan(
		&txn.ID,
		&txn.PropertyAddress,
		&txn.Status,
		&txn.AgentID,
		&contractDate,
		&closingDate,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if contractDate.Valid {
		txn.ContractDate = &contractDate.Time
	}
	if closingDate.Valid {
		txn.ClosingDate = &closingDate.Time
	}
	return &txn, nil
}
