// Package workflowtest drives the console end to end: the real router and
// services run in an httptest server against a fake backend, and a cookie-aware
// client walks the pages the way a browser would.
package workflowtest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/target/mmk-backoffice/config"
	"github.com/target/mmk-backoffice/internal/bootstrap"
	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	httpx "github.com/target/mmk-backoffice/internal/http"
	authmocks "github.com/target/mmk-backoffice/internal/mocks/auth"
	"github.com/target/mmk-backoffice/internal/service"
	"github.com/target/mmk-backoffice/internal/testutil"
)

// Harness is a running console wired to a fake backend.
type Harness struct {
	t        testing.TB
	Backend  *testutil.FakeBackend
	Storage  *authmocks.MemoryStorage
	Services bootstrap.ServiceContainer

	server *httptest.Server
	client *http.Client
}

// Options configures the harness.
type Options struct {
	// SignedIn seeds a persisted session for this principal before the console starts.
	SignedIn *domainauth.Principal
	// Prometheus serves /metrics.
	Prometheus bool
}

// Response is the part of a console response tests look at.
type Response struct {
	Status   int
	Location string
	Body     string
}

// New starts the console. Everything is torn down with the test.
func New(t testing.TB, opts Options) *Harness {
	t.Helper()
	h := &Harness{
		t:       t,
		Backend: testutil.NewFakeBackend(t),
		Storage: authmocks.NewMemoryStorage(),
	}
	if opts.SignedIn != nil {
		h.seedSession(opts.SignedIn)
	}

	cfg := &config.AppConfig{
		Backend: config.BackendConfig{BaseURL: h.Backend.URL(), Timeout: 2 * time.Second},
		Observability: config.ObservabilityConfig{
			Metrics: config.ObservabilityMetricsConfig{PrometheusEnabled: opts.Prometheus, Prefix: "backoffice"},
		},
	}
	logger := bootstrap.NewLogger(io.Discard, slog.LevelError)

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:    cfg,
		Storage:   h.Storage,
		Navigator: httpx.SlotNavigator{Logger: logger},
		Logger:    logger,
	})
	require.NoError(t, err)
	require.NoError(t, services.Sessions.Restore(t.Context()))
	h.Services = services

	handler, err := httpx.NewRouter(httpx.RouterServices{
		Session:       services.Sessions,
		Storage:       h.Storage,
		Auth:          services.Auth,
		Dashboard:     services.Dashboard,
		Organizations: services.Organizations,
		Users:         services.Users,
		Admins:        services.Admins,
		Settings:      services.Settings,
		AuditLog:      services.AuditLog,
		Metrics:       services.Observability.MetricsHandler,
		Logger:        logger,
	})
	require.NoError(t, err)

	h.server = httptest.NewServer(handler)
	t.Cleanup(h.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	h.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout: 5 * time.Second,
	}
	return h
}

func (h *Harness) seedSession(p *domainauth.Principal) {
	raw, err := json.Marshal(p)
	require.NoError(h.t, err)
	h.Storage.Seed(service.CredentialKey, "tok-seeded")
	h.Storage.Seed(service.PrincipalKey, string(raw))
}

// Get requests path without following redirects.
func (h *Harness) Get(path string) Response {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.server.URL+path, nil)
	require.NoError(h.t, err)
	return h.do(req)
}

// PostForm submits form to path with the CSRF token from the cookie jar.
// The token is obtained with a GET of /healthz when the jar has none yet.
func (h *Harness) PostForm(path string, form url.Values) Response {
	h.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(httpx.DefaultCSRFCookieName, h.csrfToken())
	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

// SignIn posts the sign-in form.
func (h *Harness) SignIn(email, password string) Response {
	h.t.Helper()
	return h.PostForm("/login", url.Values{"email": {email}, "password": {password}})
}

func (h *Harness) csrfToken() string {
	h.t.Helper()
	if tok := h.cookie(httpx.DefaultCSRFCookieName); tok != "" {
		return tok
	}
	h.Get("/healthz")
	tok := h.cookie(httpx.DefaultCSRFCookieName)
	require.NotEmpty(h.t, tok, "console did not issue a CSRF cookie")
	return tok
}

func (h *Harness) cookie(name string) string {
	u, err := url.Parse(h.server.URL)
	require.NoError(h.t, err)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (h *Harness) do(req *http.Request) Response {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return Response{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     string(body),
	}
}
