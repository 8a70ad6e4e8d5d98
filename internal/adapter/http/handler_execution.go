package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/usecase"
)

// ExecutionHandler handles HTTP requests for workflow executions
type ExecutionHandler struct {
	executionUseCase *usecase.ExecutionUseCase
}

// NewExecutionHandler creates a new execution handler
func NewExecutionHandler(executionUseCase *usecase.ExecutionUseCase) *ExecutionHandler {
	return &ExecutionHandler{executionUseCase: executionUseCase}
}

// RegisterRoutes registers execution routes
func (h *ExecutionHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/executions", auth.RequireAuth(h.ListExecutions)).Methods("GET")
	router.HandleFunc("/api/v1/executions/{id}", auth.RequireAuth(h.GetExecution)).Methods("GET")
	router.HandleFunc("/api/v1/executions/{id}/retry", auth.RequireCoordinator(h.RetryExecution)).Methods("POST")
	router.HandleFunc("/api/v1/executions/{id}/audit", auth.RequireAuth(h.ListAudit)).Methods("GET")
}

// ListExecutions handles listing executions with filters
func (h *ExecutionHandler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	filter := domain.ExecutionFilter{}

	if ruleID := r.URL.Query().Get("rule_id"); ruleID != "" {
		filter.RuleID = &ruleID
	}
	if transactionID := r.URL.Query().Get("transaction_id"); transactionID != "" {
		filter.TransactionID = &transactionID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.ExecutionStatus(status)
		filter.Status = &s
	}
	filter.Limit, filter.Offset = parsePagination(r)

	executions, err := h.executionUseCase.ListExecutions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Executions retrieved", executions)
}

// GetExecution handles retrieving a single execution
func (h *ExecutionHandler) GetExecution(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	exec, err := h.executionUseCase.GetExecution(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Execution retrieved", exec)
}

// RetryExecution handles manually retrying a failed execution
func (h *ExecutionHandler) RetryExecution(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	exec, err := h.executionUseCase.RetryExecution(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Execution retried", exec)
}

// ListAudit handles listing the audit trail for an execution
func (h *ExecutionHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entries, err := h.executionUseCase.ListAuditLog(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Audit entries retrieved", entries)
}
