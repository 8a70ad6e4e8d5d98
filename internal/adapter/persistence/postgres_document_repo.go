package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// PostgresDocumentRepository implements DocumentRepository using PostgreSQL
type PostgresDocumentRepository struct {
	db *sql.DB
}

// NewPostgresDocumentRepository creates a new PostgreSQL document repository
func NewPostgresDocumentRepository(db *sql.DB) ports.DocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// Create saves a new document record
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *domain.TransactionDocument) error {
	query := `
		INSERT INTO transaction_documents (id, transaction_id, file_name, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.TransactionID,
		doc.FileName,
		doc.UploadedBy,
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// ListByTransaction retrieves all documents for a transaction
func (r *PostgresDocumentRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.TransactionDocument, error) {
	query := `SELECT id, transaction_id, file_name, uploaded_by, uploaded_at FROM transaction_documents WHERE transaction_id = $1 ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.TransactionDocument
	for rows.Next() {
		var doc domain.TransactionDocument
		if err := rows.Scan(&doc.ID, &doc.TransactionID, &doc.FileName, &doc.UploadedBy, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}
