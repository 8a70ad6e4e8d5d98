package http

import (
	"encoding/json"
	"net/http"

	"github.com/dealdesk/dealdesk/pkg/apperr"
)

// Envelope is the JSON response wrapper used by every endpoint
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, statusCode int, status bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func writeSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, true, message, data)
}

// writeError maps domain errors to HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	appErr := apperr.MapError(err)
	writeJSON(w, appErr.Status, false, appErr.Message, nil)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, false, message, nil)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, false, message, nil)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, false, message, nil)
}
