package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/mmk-backoffice/internal/core"
	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API      core.AuthAPI
	Sessions *SessionStore
	Logger   *slog.Logger
}

// AuthService orchestrates login and logout by coordinating the backend and the session store.
type AuthService struct {
	api      core.AuthAPI
	sessions *SessionStore
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{api: opts.API, sessions: opts.Sessions, logger: logger}
}

// Login authenticates against the backend and adopts the issued credential and principal.
// A failed persist is logged and does not fail the login; the session stays in memory.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domainauth.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	res, err := s.api.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if res.Token.IsZero() {
		return nil, apperrors.Internal("backend returned no credential")
	}

	principal := res.Admin
	if setErr := s.sessions.SetSession(ctx, res.Token, &principal); setErr != nil {
		if apperrors.IsValidation(setErr) {
			s.logger.WarnContext(ctx, "login returned an unusable principal", "error", setErr)
			return nil, fmt.Errorf("login: %w", setErr)
		}
		s.logger.WarnContext(ctx, "login succeeded but session was not persisted", "error", setErr)
	}
	s.logger.InfoContext(ctx, "operator signed in", "principal_id", principal.ID, "role", principal.Role)
	return &principal, nil
}

// Logout ends the current session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// RefreshPrincipal reloads the principal from the backend and re-adopts it with the
// current credential. Without a session it returns an Unauthorized error.
func (s *AuthService) RefreshPrincipal(ctx context.Context) (*domainauth.Principal, error) {
	cred := s.sessions.Credential()
	if cred.IsZero() {
		return nil, apperrors.Unauthorized("not signed in")
	}
	principal, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("load principal: %w", err)
	}
	adopted, setErr := s.sessions.ReplacePrincipalIf(ctx, cred, &principal)
	if setErr != nil && apperrors.IsValidation(setErr) {
		s.logger.WarnContext(ctx, "backend returned an unusable principal", "error", setErr)
		return nil, fmt.Errorf("load principal: %w", setErr)
	}
	if !adopted {
		// The session changed while the request was in flight; do not resurrect it.
		return s.sessions.Principal(), nil
	}
	return &principal, nil
}
