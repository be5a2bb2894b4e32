package ports

// Package ports defines interfaces (hexagonal ports) for session and navigation behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
)

// SessionStorage is durable string key/value storage scoped to the running client.
// Get reports ok=false when the key is absent.
type SessionStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Navigator applies a forced navigation decision (for example, back to the login entry point).
type Navigator interface {
	Navigate(ctx context.Context, target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, target string)

// Navigate calls f(ctx, target).
func (f NavigatorFunc) Navigate(ctx context.Context, target string) { f(ctx, target) }

// CredentialSource exposes the credential currently held by the session.
type CredentialSource interface {
	Credential() domainauth.Credential
}

// SessionInvalidator clears the current session.
type SessionInvalidator interface {
	ClearSession(ctx context.Context) error
}
