package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dealdesk/dealdesk/internal/usecase"
)

// TemplateHandler handles HTTP requests for workflow templates
type TemplateHandler struct {
	workflowUseCase *usecase.WorkflowUseCase
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(workflowUseCase *usecase.WorkflowUseCase) *TemplateHandler {
	return &TemplateHandler{workflowUseCase: workflowUseCase}
}

// RegisterRoutes registers template routes
func (h *TemplateHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/templates", auth.RequireCoordinator(h.CreateTemplate)).Methods("POST")
	router.HandleFunc("/api/v1/templates", auth.RequireAuth(h.ListTemplates)).Methods("GET")
	router.HandleFunc("/api/v1/templates/{id}", auth.RequireAuth(h.GetTemplate)).Methods("GET")
	router.HandleFunc("/api/v1/templates/{id}/apply", auth.RequireAuth(h.ApplyTemplate)).Methods("POST")
}

// CreateTemplate handles template creation
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.CreatedBy == "" {
		req.CreatedBy = UserID(r)
	}

	tmpl, err := h.workflowUseCase.CreateTemplate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Template created", tmpl)
}

// GetTemplate handles retrieving a single template
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tmpl, err := h.workflowUseCase.GetTemplate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Template retrieved", tmpl)
}

// ListTemplates handles listing templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	templates, err := h.workflowUseCase.ListTemplates(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Templates retrieved", templates)
}

// ApplyTemplate handles manually applying a template to a transaction
func (h *TemplateHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["id"]

	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.TransactionID == "" {
		writeBadRequest(w, "Transaction ID is required")
		return
	}

	instanceID, err := h.workflowUseCase.ApplyTemplate(r.Context(), req.TransactionID, templateID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Workflow applied", map[string]string{
		"workflow_instance_id": instanceID,
	})
}
