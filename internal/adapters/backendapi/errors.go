package backendapi

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

// APIError is a failure reported by the backend, either a non-2xx status or an
// envelope with success=false. Message is the backend's own text.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend %d: %s", e.Status, msg)
}

// Unwrap exposes the failure as an AppError so callers can use the apperrors predicates.
func (e *APIError) Unwrap() error {
	return &apperrors.AppError{Code: apperrors.CodeForStatus(e.Status), Message: e.Message}
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// UserMessage returns the text to show an operator for err: the backend's message
// when it sent one, the message of a local validation error, otherwise fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if apperrors.IsValidation(err) || apperrors.IsForbidden(err) {
		return apperrors.Message(err)
	}
	return fallback
}
