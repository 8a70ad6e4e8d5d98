package usecase

import (
	"context"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/automation"
	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// UploadDocumentRequest represents the request to record a document upload
type UploadDocumentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	FileName      string `json:"file_name" validate:"required"`
	UploadedBy    string `json:"uploaded_by"`
}

// DocumentUseCase handles transaction document business logic
type DocumentUseCase struct {
	documents    ports.DocumentRepository
	transactions ports.TransactionRepository
	auto         *AutomationService
}

// NewDocumentUseCase creates a new document use case
func NewDocumentUseCase(documents ports.DocumentRepository, transactions ports.TransactionRepository, auto *AutomationService) *DocumentUseCase {
	return &DocumentUseCase{
		documents:    documents,
		transactions: transactions,
		auto:         auto,
	}
}

// UploadDocument records a document against a transaction and fires any
// document_uploaded automation rules
func (uc *DocumentUseCase) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*domain.TransactionDocument, error) {
	if req.TransactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if req.FileName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	txn, err := uc.transactions.FindByID(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	doc := domain.NewTransactionDocument(req.TransactionID, req.FileName, req.UploadedBy)
	if err := uc.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	if uc.auto != nil {
		uc.auto.FireEvent(ctx, domain.TriggerEventDocumentUploaded, automation.TriggerContext{
			Transaction: txn,
			Document:    doc,
		})
	}
	return doc, nil
}

// ListDocuments retrieves all documents for a transaction
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, transactionID string) ([]*domain.TransactionDocument, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	docs, err := uc.documents.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
