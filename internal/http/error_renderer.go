package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/target/mmk-backoffice/internal/adapters/backendapi"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

// errorMessage returns the text shown on a page for err: timeouts and
// cancellations get their own wording, backend and validation messages are
// shown as sent, anything else falls back.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}
	return backendapi.UserMessage(err, fallback)
}

// fieldErrors maps a field-level validation error to the form field it names.
func fieldErrors(err error) map[string]string {
	field := apperrors.GetField(err)
	if field == "" || !apperrors.IsValidation(err) {
		return nil
	}
	return map[string]string{field: apperrors.Message(err)}
}

// actionError is the page data added when a mutation fails.
func actionError(err error, fallback string) map[string]any {
	extra := map[string]any{
		"Error":        true,
		"ErrorMessage": errorMessage(err, fallback),
	}
	if fe := fieldErrors(err); fe != nil {
		extra["Errors"] = fe
	}
	return extra
}

// invalidForm is the page data added when local form validation fails.
func invalidForm(errs map[string]string) map[string]any {
	return map[string]any{
		"Error":        true,
		"ErrorMessage": msgInvalidForm,
		"Errors":       errs,
	}
}

// actionFailed handles a failed mutation: follow a forced navigation if the failure
// ended the session, otherwise re-render the page with the error on screen.
func (h *UIHandlers) actionFailed(w http.ResponseWriter, r *http.Request, err error, fallback string, rerender func(extra map[string]any)) {
	if h.followNavigation(w, r) {
		return
	}
	h.logger().WarnContext(r.Context(), "action failed", "path", r.URL.Path, "error", err)
	rerender(actionError(err, fallback))
}
