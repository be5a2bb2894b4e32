package httpx

import (
	"net/http"
	"strings"

	"github.com/target/mmk-backoffice/internal/domain/access"
	"github.com/target/mmk-backoffice/internal/http/validation"
)

func loginMeta() PageMeta {
	return PageMeta{Title: "Sign in", PageTitle: "Sign in", CurrentPage: PageLogin}
}

// LoginPage serves the sign-in form.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: loginMeta()})
}

// Login authenticates the operator. A failed attempt re-renders the form with the
// backend's message; a rejected login never counts as an ended session.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Page(w, r, PageSpec{Meta: loginMeta(), Extra: actionError(err, msgLoginFailed)})
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	fv := validation.New().
		Validate("email", email, validation.Required("Email", maxEmailLen), validation.Email("Email")).
		Validate("password", password, validation.Required("Password", maxPasswordLen))
	if !fv.Valid() {
		extra := invalidForm(fv.Errors())
		extra["Email"] = email
		h.Page(w, r, PageSpec{Meta: loginMeta(), Extra: extra})
		return
	}

	principal, err := h.AuthSvc.Login(r.Context(), email, password)
	if err != nil {
		clearNavigation(r.Context())
		h.logger().InfoContext(r.Context(), "sign-in rejected", "error", err)
		extra := actionError(err, msgLoginFailed)
		extra["Email"] = email
		h.Page(w, r, PageSpec{Meta: loginMeta(), Extra: extra})
		return
	}

	h.logger().InfoContext(r.Context(), "sign-in succeeded", "principal_id", principal.ID)
	redirect(w, r, access.DashboardPath)
}

// Logout ends the session and returns to the sign-in page.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthSvc.Logout(r.Context()); err != nil {
		// The in-memory session is already gone; only persistence failed.
		h.logger().WarnContext(r.Context(), "logout did not clear stored session", "error", err)
	}
	redirect(w, r, access.LoginPath)
}

// Home sends the root path to the dashboard.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, access.DashboardPath)
}
