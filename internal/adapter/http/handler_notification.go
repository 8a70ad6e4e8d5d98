package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dealdesk/dealdesk/internal/usecase"
)

// NotificationHandler handles HTTP requests for in-app notifications
type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{notificationUseCase: notificationUseCase}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/notifications", auth.RequireAuth(h.ListNotifications)).Methods("GET")
	router.HandleFunc("/api/v1/notifications/{id}/read", auth.RequireAuth(h.MarkRead)).Methods("POST")
}

// ListNotifications handles listing the caller's notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	recipient := r.URL.Query().Get("recipient")
	if recipient == "" {
		recipient = UserID(r)
	}
	if recipient == "" {
		writeBadRequest(w, "Recipient is required")
		return
	}
	limit, offset := parsePagination(r)

	notifications, err := h.notificationUseCase.ListNotifications(r.Context(), recipient, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Notifications retrieved", notifications)
}

// MarkRead handles marking a notification as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.notificationUseCase.MarkRead(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Notification marked read", nil)
}
