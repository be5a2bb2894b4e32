package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultCSRFCookieName names the double-submit cookie and the form field the console's forms post.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is sent by htmx requests (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes   = 32
	csrfCookieMaxAge = 12 * 60 * 60
	csrfRejected     = "CSRF token validation failed. Reload the page and try again."
)

// CSRFConfig configures CSRFProtection.
type CSRFConfig struct {
	// Secure forces the Secure cookie attribute when TLS terminates upstream
	// without X-Forwarded-Proto.
	Secure bool
}

type csrfTokenKey struct{}

// CSRFProtection guards every mutating request with a double-submit token.
// The cookie is issued on the first visit and reused until it expires; the
// token must come back in the X-Csrf-Token header or the csrf_token form field.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(DefaultCSRFCookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				fresh, err := newCSRFToken()
				if err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				token = fresh
				http.SetCookie(w, &http.Cookie{
					Name:     DefaultCSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false, // htmx reads it to set the header
					Secure:   cfg.Secure || r.TLS != nil || forwardedHTTPS(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   csrfCookieMaxAge,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if mutating(r.Method) && !submittedTokenMatches(r, token) {
				http.Error(w, csrfRejected, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken returns the token for the request so pages can embed it in forms.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}
	return true
}

// submittedTokenMatches compares the header token, or the form field when no
// header was sent, against the cookie in constant time.
func submittedTokenMatches(r *http.Request, cookieToken string) bool {
	if cookieToken == "" {
		return false
	}
	submitted := r.Header.Get(DefaultCSRFHeaderName)
	if submitted == "" && isFormPost(r) {
		if err := r.ParseForm(); err != nil {
			return false
		}
		submitted = r.PostFormValue(DefaultCSRFCookieName)
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

func isFormPost(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}

func forwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
