package httpx

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/target/mmk-backoffice/internal/errors"
	"github.com/target/mmk-backoffice/internal/ports"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

const readinessTimeout = 2 * time.Second

// readinessProbeKey is read, never written, to check the session storage is reachable.
const readinessProbeKey = "readyz"

// readyHandler reports whether session storage answers. Without storage the console
// is non-interactive and always ready.
func readyHandler(storage ports.SessionStorage, session SessionView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if storage != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if _, _, err := storage.Get(ctx, readinessProbeKey); err != nil {
				WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "session storage unavailable"))
				return
			}
		}
		authenticated := session != nil && session.IsAuthenticated()
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"authenticated": authenticated,
		})
	}
}
