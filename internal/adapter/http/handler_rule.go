package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/usecase"
)

// RuleHandler handles HTTP requests for automation rules.
// Mutations are restricted to coordinators.
type RuleHandler struct {
	ruleUseCase *usecase.RuleUseCase
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(ruleUseCase *usecase.RuleUseCase) *RuleHandler {
	return &RuleHandler{ruleUseCase: ruleUseCase}
}

// RegisterRoutes registers rule routes
func (h *RuleHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/rules", auth.RequireCoordinator(h.CreateRule)).Methods("POST")
	router.HandleFunc("/api/v1/rules", auth.RequireAuth(h.ListRules)).Methods("GET")
	router.HandleFunc("/api/v1/rules/{id}", auth.RequireAuth(h.GetRule)).Methods("GET")
	router.HandleFunc("/api/v1/rules/{id}", auth.RequireCoordinator(h.UpdateRule)).Methods("PATCH")
	router.HandleFunc("/api/v1/rules/{id}", auth.RequireCoordinator(h.DeleteRule)).Methods("DELETE")
}

// CreateRule handles rule creation
func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.CreatedBy == "" {
		req.CreatedBy = UserID(r)
	}

	rule, err := h.ruleUseCase.CreateRule(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Rule created", rule)
}

// GetRule handles retrieving a single rule
func (h *RuleHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rule, err := h.ruleUseCase.GetRule(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Rule retrieved", rule)
}

// ListRules handles listing rules with filters
func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	filter := domain.RuleFilter{}

	if activeStr := r.URL.Query().Get("active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			filter.Active = &active
		}
	}
	if event := r.URL.Query().Get("trigger_event"); event != "" {
		e := domain.TriggerEvent(event)
		filter.TriggerEvent = &e
	}
	filter.Limit, filter.Offset = parsePagination(r)

	rules, err := h.ruleUseCase.ListRules(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Rules retrieved", rules)
}

// UpdateRule handles partial rule updates
func (h *RuleHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req usecase.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	rule, err := h.ruleUseCase.UpdateRule(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Rule updated", rule)
}

// DeleteRule handles rule deletion
func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.ruleUseCase.DeleteRule(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Rule deleted", nil)
}
