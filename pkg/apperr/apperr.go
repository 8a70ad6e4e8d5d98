package apperr

import (
	"errors"
	"net/http"

	"github.com/dealdesk/dealdesk/internal/domain"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: "BAD_REQUEST", Message: "Bad request", Status: http.StatusBadRequest}
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden      = &AppError{Code: "FORBIDDEN", Message: "Forbidden", Status: http.StatusForbidden}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Not found", Status: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError}
	ErrConflict       = &AppError{Code: "CONFLICT", Message: "Conflict", Status: http.StatusConflict}
	ErrTooManyReqs    = &AppError{Code: "RATE_LIMITED", Message: "Too many requests", Status: http.StatusTooManyRequests}
)

func NewBadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: http.StatusUnauthorized}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message, Status: http.StatusForbidden}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: http.StatusConflict}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// MapError translates domain errors into HTTP-facing application errors
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrRuleNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrExecutionNotFound):
		return NewNotFound(err.Error())
	case errors.Is(err, domain.ErrInvalidCondition),
		errors.Is(err, domain.ErrInvalidStatus):
		return NewBadRequest(err.Error())
	case errors.Is(err, domain.ErrTransactionClosed),
		errors.Is(err, domain.ErrTaskAlreadyCompleted),
		errors.Is(err, domain.ErrExecutionNotRetryable),
		errors.Is(err, domain.ErrRetryExhausted):
		return NewConflict(err.Error())
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return NewBadRequest(domainErr.Message)
	}
	return NewInternalServer("An unexpected error occurred")
}
