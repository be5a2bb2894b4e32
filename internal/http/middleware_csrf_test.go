package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSRFToken = "test-token-value"

func csrfCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_IssuesCookieOnFirstVisit(t *testing.T) {
	var ctxToken string
	h := CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxToken = GetCSRFToken(r)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := csrfCookie(rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, ctxToken)
	assert.Equal(t, "/", c.Path)
	assert.False(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, csrfCookieMaxAge, c.MaxAge)
}

func TestCSRFProtection_ExistingCookieReused(t *testing.T) {
	var ctxToken string
	h := CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxToken = GetCSRFToken(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Nil(t, csrfCookie(rec))
	assert.Equal(t, testCSRFToken, ctxToken)
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	tests := []struct {
		name   string
		cfg    CSRFConfig
		mutate func(r *http.Request)
	}{
		{"configured secure", CSRFConfig{Secure: true}, func(*http.Request) {}},
		{"direct TLS", CSRFConfig{}, func(r *http.Request) { r.TLS = &tls.ConnectionState{} }},
		{"forwarded proto list", CSRFConfig{}, func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "http, HTTPS") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			tt.mutate(req)
			rec := httptest.NewRecorder()
			CSRFProtection(tt.cfg)(okHandler()).ServeHTTP(rec, req)

			c := csrfCookie(rec)
			require.NotNil(t, c)
			assert.True(t, c.Secure)
		})
	}
}

func TestCSRFProtection_Validation(t *testing.T) {
	form := func(token string) string {
		return url.Values{"csrf_token": {token}, "status": {"suspended"}}.Encode()
	}
	tests := []struct {
		name        string
		method      string
		cookie      bool
		header      string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "safe method exempt", method: http.MethodHead, wantStatus: http.StatusOK},
		{name: "options exempt", method: http.MethodOptions, wantStatus: http.StatusOK},
		{name: "post without cookie", method: http.MethodPost, header: testCSRFToken, wantStatus: http.StatusForbidden},
		{name: "post without token", method: http.MethodPost, cookie: true, wantStatus: http.StatusForbidden},
		{name: "valid header", method: http.MethodPost, cookie: true, header: testCSRFToken, wantStatus: http.StatusOK},
		{name: "mismatched header", method: http.MethodPost, cookie: true, header: "other", wantStatus: http.StatusForbidden},
		{
			name: "header wins over form", method: http.MethodPost, cookie: true, header: "other",
			body: form(testCSRFToken), contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusForbidden,
		},
		{
			name: "valid form field", method: http.MethodPost, cookie: true,
			body: form(testCSRFToken), contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusOK,
		},
		{
			name: "form field ignored for json", method: http.MethodPost, cookie: true,
			body: form(testCSRFToken), contentType: "application/json", wantStatus: http.StatusForbidden,
		},
		{name: "delete needs token", method: http.MethodDelete, cookie: true, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/organizations/org-1/status", strings.NewReader(tt.body))
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
			}
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			CSRFProtection(CSRFConfig{})(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "Reload the page")
			}
		})
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
