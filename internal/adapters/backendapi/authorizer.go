package backendapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/target/mmk-backoffice/internal/domain/access"
	obserrors "github.com/target/mmk-backoffice/internal/observability/errors"
	"github.com/target/mmk-backoffice/internal/ports"
)

// RequestIDHeader carries a per-call correlation ID to the backend.
const RequestIDHeader = "X-Request-Id"

// Metrics records backend call outcomes. Status is 0 for transport failures.
type Metrics interface {
	ObserveBackendRequest(endpoint, method string, status int, elapsed time.Duration)
	IncSessionInvalidated()
}

// AuthorizerOptions groups dependencies for Authorizer.
type AuthorizerOptions struct {
	// Base is the transport requests are forwarded to. Defaults to http.DefaultTransport.
	Base        http.RoundTripper
	Credentials ports.CredentialSource
	Sessions    ports.SessionInvalidator
	Navigator   ports.Navigator
	Metrics     Metrics
	Logger      *slog.Logger
}

// Authorizer attaches the session credential to every backend request and ends
// the session when the backend answers 401. It is installed once as the
// transport of the shared http.Client.
type Authorizer struct {
	base      http.RoundTripper
	creds     ports.CredentialSource
	sessions  ports.SessionInvalidator
	navigator ports.Navigator
	metrics   Metrics
	logger    *slog.Logger
}

var _ http.RoundTripper = (*Authorizer)(nil)

// NewAuthorizer constructs an Authorizer.
func NewAuthorizer(opts AuthorizerOptions) *Authorizer {
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{
		base:      base,
		creds:     opts.Credentials,
		sessions:  opts.Sessions,
		navigator: opts.Navigator,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "authorizer"),
	}
}

// RoundTrip implements http.RoundTripper. The caller's request is never modified.
// A 401 response is returned unchanged after the session has been cleared.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	if a.creds != nil {
		if cred := a.creds.Credential(); !cred.IsZero() {
			tok := &oauth2.Token{AccessToken: cred.String(), TokenType: "Bearer"}
			tok.SetAuthHeader(out)
		}
	}
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	start := time.Now()
	resp, err := a.base.RoundTrip(out)
	elapsed := time.Since(start)
	endpoint := EndpointFromContext(ctx)

	if err != nil {
		a.observe(endpoint, out.Method, 0, elapsed)
		a.logger.WarnContext(ctx, "backend request failed",
			"endpoint", endpoint,
			"request_id", out.Header.Get(RequestIDHeader),
			"error_class", obserrors.Classify(err),
			"error", err)
		return nil, err
	}
	a.observe(endpoint, out.Method, resp.StatusCode, elapsed)

	if resp.StatusCode == http.StatusUnauthorized {
		a.invalidate(ctx, endpoint, out.Header.Get(RequestIDHeader))
	}
	return resp, nil
}

func (a *Authorizer) invalidate(ctx context.Context, endpoint, requestID string) {
	a.logger.InfoContext(ctx, "backend rejected credential; ending session",
		"endpoint", endpoint, "request_id", requestID)

	if a.sessions != nil {
		if err := a.sessions.ClearSession(ctx); err != nil {
			a.logger.WarnContext(ctx, "clear session after 401", "error", err)
		}
	}
	if a.metrics != nil {
		a.metrics.IncSessionInvalidated()
	}
	if a.navigator != nil {
		a.navigator.Navigate(ctx, access.LoginPath)
	}
}

func (a *Authorizer) observe(endpoint, method string, status int, elapsed time.Duration) {
	if a.metrics == nil {
		return
	}
	a.metrics.ObserveBackendRequest(endpoint, method, status, elapsed)
}
