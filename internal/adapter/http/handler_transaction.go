package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/usecase"
)

// TransactionHandler handles HTTP requests for transactions and their
// tasks and documents
type TransactionHandler struct {
	transactionUseCase *usecase.TransactionUseCase
	taskUseCase        *usecase.TaskUseCase
	documentUseCase    *usecase.DocumentUseCase
	executionUseCase   *usecase.ExecutionUseCase
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionUseCase *usecase.TransactionUseCase,
	taskUseCase *usecase.TaskUseCase,
	documentUseCase *usecase.DocumentUseCase,
	executionUseCase *usecase.ExecutionUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
		taskUseCase:        taskUseCase,
		documentUseCase:    documentUseCase,
		executionUseCase:   executionUseCase,
	}
}

// RegisterRoutes registers transaction routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/transactions", auth.RequireAuth(h.CreateTransaction)).Methods("POST")
	router.HandleFunc("/api/v1/transactions", auth.RequireAuth(h.ListTransactions)).Methods("GET")
	router.HandleFunc("/api/v1/transactions/{id}", auth.RequireAuth(h.GetTransaction)).Methods("GET")
	router.HandleFunc("/api/v1/transactions/{id}/status", auth.RequireAuth(h.UpdateStatus)).Methods("PATCH")
	router.HandleFunc("/api/v1/transactions/{id}/dates", auth.RequireAuth(h.UpdateDates)).Methods("PATCH")
	router.HandleFunc("/api/v1/transactions/{id}/tasks", auth.RequireAuth(h.AddTask)).Methods("POST")
	router.HandleFunc("/api/v1/transactions/{id}/tasks", auth.RequireAuth(h.ListTasks)).Methods("GET")
	router.HandleFunc("/api/v1/transactions/{id}/documents", auth.RequireAuth(h.UploadDocument)).Methods("POST")
	router.HandleFunc("/api/v1/transactions/{id}/documents", auth.RequireAuth(h.ListDocuments)).Methods("GET")
	router.HandleFunc("/api/v1/transactions/{id}/audit", auth.RequireAuth(h.ListAudit)).Methods("GET")
	router.HandleFunc("/api/v1/tasks/{id}/complete", auth.RequireAuth(h.CompleteTask)).Methods("POST")
}

// CreateTransaction handles transaction creation
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.AgentID == "" {
		req.AgentID = UserID(r)
	}

	txn, err := h.transactionUseCase.CreateTransaction(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Transaction created", txn)
}

// GetTransaction handles retrieving a single transaction
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	txn, err := h.transactionUseCase.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Transaction retrieved", txn)
}

// ListTransactions handles listing transactions with filters
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := domain.TransactionFilter{}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.TransactionStatus(status)
		filter.Status = &s
	}
	if agentID := r.URL.Query().Get("agent_id"); agentID != "" {
		filter.AgentID = &agentID
	}
	filter.Limit, filter.Offset = parsePagination(r)

	txns, total, err := h.transactionUseCase.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Transactions retrieved", map[string]interface{}{
		"transactions": txns,
		"total":        total,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})
}

// UpdateStatus handles transaction status changes
func (h *TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Status domain.TransactionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.Status == "" {
		writeBadRequest(w, "Status is required")
		return
	}

	txn, err := h.transactionUseCase.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Status updated", txn)
}

// UpdateDates handles contract and closing date changes
func (h *TransactionHandler) UpdateDates(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		ContractDate *time.Time `json:"contract_date,omitempty"`
		ClosingDate  *time.Time `json:"closing_date,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	txn, err := h.transactionUseCase.UpdateDates(r.Context(), id, req.ContractDate, req.ClosingDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Dates updated", txn)
}

// AddTask handles adding a task to a transaction
func (h *TransactionHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	req.TransactionID = mux.Vars(r)["id"]

	task, err := h.taskUseCase.AddTask(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Task created", task)
}

// ListTasks handles listing a transaction's tasks
func (h *TransactionHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tasks, err := h.taskUseCase.ListTasks(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Tasks retrieved", tasks)
}

// CompleteTask handles task completion
func (h *TransactionHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := h.taskUseCase.CompleteTask(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Task completed", task)
}

// UploadDocument handles recording an uploaded document
func (h *TransactionHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	var req usecase.UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	req.TransactionID = mux.Vars(r)["id"]
	if req.UploadedBy == "" {
		req.UploadedBy = UserID(r)
	}

	doc, err := h.documentUseCase.UploadDocument(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Document recorded", doc)
}

// ListDocuments handles listing a transaction's documents
func (h *TransactionHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	docs, err := h.documentUseCase.ListDocuments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Documents retrieved", docs)
}

// ListAudit handles listing the automation audit trail for a transaction
func (h *TransactionHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.executionUseCase.ListTransactionAudit(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Audit entries retrieved", entries)
}

func parsePagination(r *http.Request) (limit, offset int) {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}
