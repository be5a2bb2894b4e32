package workflowtest

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/testutil"
)

func TestConsole_SignInThenBrowse(t *testing.T) {
	h := New(t, Options{})
	h.Backend.RespondData(http.MethodPost, "/login", http.StatusOK, map[string]any{
		"token": "tok-live",
		"admin": testutil.NewPrincipal().Build(),
	})
	h.Backend.RespondData(http.MethodGet, "/dashboard/stats", http.StatusOK, model.DashboardStats{})

	res := h.Get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/login", res.Location)

	res = h.SignIn("ops@example.com", "secret")
	require.Equal(t, http.StatusSeeOther, res.Status, res.Body)
	assert.Equal(t, "/dashboard", res.Location)

	res = h.Get("/dashboard")
	require.Equal(t, http.StatusOK, res.Status)

	var statsCall *testutil.RecordedRequest
	for _, r := range h.Backend.Requests() {
		if r.Path == "/dashboard/stats" {
			statsCall = &r
		}
	}
	require.NotNil(t, statsCall)
	assert.Equal(t, "Bearer tok-live", statsCall.Header.Get("Authorization"))

	res = h.Get("/login")
	assert.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/dashboard", res.Location)
}

func TestConsole_RejectedSignInStaysOnLogin(t *testing.T) {
	h := New(t, Options{})
	h.Backend.RespondError(http.MethodPost, "/login", http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")

	res := h.SignIn("ops@example.com", "wrong")

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Invalid email or password")
	assert.False(t, h.Services.Sessions.IsAuthenticated())
}

func TestConsole_ExpiredCredentialEndsSession(t *testing.T) {
	h := New(t, Options{SignedIn: testutil.NewPrincipal().Build()})
	h.Backend.RespondError(http.MethodGet, "/organizations", http.StatusUnauthorized, "UNAUTHORIZED", "Token expired")

	res := h.Get("/organizations")

	assert.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/login", res.Location)
	assert.False(t, h.Services.Sessions.IsAuthenticated())
	assert.Zero(t, h.Storage.Len())
}

func TestConsole_SupportIsKeptOutOfAdmins(t *testing.T) {
	h := New(t, Options{SignedIn: testutil.NewPrincipal().Build()})

	for _, path := range []string{"/admins", "/settings"} {
		res := h.Get(path)
		assert.Equal(t, http.StatusSeeOther, res.Status, path)
		assert.Equal(t, "/dashboard", res.Location, path)
	}
	assert.Empty(t, h.Backend.Requests())
}

func TestConsole_SuperAdminSeesSettings(t *testing.T) {
	h := New(t, Options{SignedIn: testutil.NewPrincipal().Elevated().Build()})
	h.Backend.RespondData(http.MethodGet, "/settings", http.StatusOK, map[string]any{
		"maintenance_mode": map[string]string{"value": "false", "description": "Show the maintenance banner"},
	})

	res := h.Get("/settings")

	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "maintenance_mode")
}

func TestConsole_LogoutClearsStoredSession(t *testing.T) {
	h := New(t, Options{SignedIn: testutil.NewPrincipal().Build()})

	res := h.PostForm("/logout", nil)

	assert.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/login", res.Location)
	assert.Zero(t, h.Storage.Len())
}

func TestConsole_PostWithoutCSRFIsRejected(t *testing.T) {
	h := New(t, Options{SignedIn: testutil.NewPrincipal().Build()})

	req, err := http.NewRequest(http.MethodPost, h.server.URL+"/organizations/org-1/delete", nil)
	require.NoError(t, err)
	res := h.do(req)

	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Empty(t, h.Backend.Requests())
}

func TestConsole_StatusChangeRoundTrip(t *testing.T) {
	h := New(t, Options{SignedIn: testutil.NewPrincipal().Build()})
	h.Backend.RespondData(http.MethodPut, "/organizations/org-1/status", http.StatusOK, nil)

	res := h.PostForm("/organizations/org-1/status", url.Values{
		"current": {"active"},
		"status":  {"suspended"},
		"reason":  {"chargeback"},
	})

	assert.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/organizations/org-1?notice=status-changed", res.Location)
	req, ok := h.Backend.LastRequest()
	require.True(t, ok)
	assert.JSONEq(t, `{"status":"suspended","reason":"chargeback"}`, string(req.Body))
}

func TestConsole_MetricsEndpoint(t *testing.T) {
	h := New(t, Options{Prometheus: true})

	res := h.Get("/metrics")

	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "go_goroutines")
}
