package domain

import "time"

// TransactionDocument represents a document uploaded against a transaction
type TransactionDocument struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	FileName      string    `json:"file_name"`
	UploadedBy    string    `json:"uploaded_by"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// NewTransactionDocument records a freshly uploaded document
func NewTransactionDocument(transactionID, fileName, uploadedBy string) *TransactionDocument {
	return &TransactionDocument{
		ID:            NewID("doc"),
		TransactionID: transactionID,
		FileName:      fileName,
		UploadedBy:    uploadedBy,
		UploadedAt:    time.Now(),
	}
}

var ErrDocumentNotFound = NewDomainError("document not found")
