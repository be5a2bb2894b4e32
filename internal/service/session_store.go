package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
	"github.com/target/mmk-backoffice/internal/ports"
)

// Storage keys for the persisted session pair. They are always written and removed together.
const (
	CredentialKey = "admin_token"
	PrincipalKey  = "admin_user"
)

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	// Storage persists the session across restarts. Nil means a non-interactive
	// context: nothing is restored or persisted and Interactive reports false.
	Storage ports.SessionStorage
	Logger  *slog.Logger
}

// SessionStore is the single source of truth for the current credential and principal.
//
// The pair is only ever replaced as a whole. Reads never block on storage.
// Mutations are serialized so the persisted pair always matches memory after
// the last mutation returns.
type SessionStore struct {
	storage ports.SessionStorage
	logger  *slog.Logger

	// writeMu serializes mutations including their persistence and notifications.
	writeMu sync.Mutex

	mu    sync.RWMutex
	state domainauth.State

	obsMu     sync.Mutex
	observers map[uint64]func(domainauth.State)
	nextObs   uint64
}

// NewSessionStore constructs an empty SessionStore. Call Restore to load a persisted session.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		storage:   opts.Storage,
		logger:    logger.With("component", "session_store"),
		observers: make(map[uint64]func(domainauth.State)),
	}
}

// Interactive reports whether the store is backed by durable client storage.
func (s *SessionStore) Interactive() bool { return s.storage != nil }

// Restore loads the persisted session. A pair is adopted only when both keys are
// present and the principal decodes; otherwise any leftovers are purged and the
// store stays empty. Storage read failures are logged and treated as no session.
func (s *SessionStore) Restore(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	token, hasToken, err := s.storage.Get(ctx, CredentialKey)
	if err != nil {
		s.logger.WarnContext(ctx, "read persisted credential", "error", err)
		return nil
	}
	rawPrincipal, hasPrincipal, err := s.storage.Get(ctx, PrincipalKey)
	if err != nil {
		s.logger.WarnContext(ctx, "read persisted principal", "error", err)
		return nil
	}

	if !hasToken && !hasPrincipal {
		return nil
	}

	principal, decodeErr := decodePrincipal(rawPrincipal)
	if !hasToken || !hasPrincipal || token == "" || decodeErr != nil {
		s.logger.WarnContext(ctx, "discarding incomplete persisted session",
			"has_credential", hasToken && token != "",
			"has_principal", hasPrincipal,
			"decode_error", decodeErr,
		)
		if delErr := s.storage.Delete(ctx, CredentialKey, PrincipalKey); delErr != nil {
			return fmt.Errorf("purge persisted session: %w", delErr)
		}
		return nil
	}

	next := domainauth.State{Credential: domainauth.Credential(token), Principal: principal}
	s.replace(next)
	s.logger.DebugContext(ctx, "session restored", "principal_id", principal.ID, "role", principal.Role)
	s.notify(next)
	return nil
}

// SetSession adopts a new credential and principal as one pair, persists both and
// notifies observers. If persisting fails the in-memory session is kept and the
// error is returned.
func (s *SessionStore) SetSession(ctx context.Context, credential domainauth.Credential, principal *domainauth.Principal) error {
	if credential.IsZero() {
		return apperrors.ValidationField("credential", "credential is required")
	}
	if err := validatePrincipal(principal); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.adopt(ctx, credential, principal)
}

// ReplacePrincipalIf swaps in principal only while credential is still the current one.
// It reports false, leaving the store untouched, when the session was cleared or replaced.
func (s *SessionStore) ReplacePrincipalIf(ctx context.Context, credential domainauth.Credential, principal *domainauth.Principal) (bool, error) {
	if err := validatePrincipal(principal); err != nil {
		return false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if credential.IsZero() || s.Credential() != credential {
		return false, nil
	}
	return true, s.adopt(ctx, credential, principal)
}

// adopt replaces the pair. Callers hold writeMu.
func (s *SessionStore) adopt(ctx context.Context, credential domainauth.Credential, principal *domainauth.Principal) error {
	p := *principal
	next := domainauth.State{Credential: credential, Principal: &p}
	s.replace(next)

	persistErr := s.persist(ctx, next)
	if persistErr != nil {
		s.logger.WarnContext(ctx, "persist session", "error", persistErr)
	}
	s.notify(next)

	if persistErr != nil {
		return fmt.Errorf("persist session: %w", persistErr)
	}
	return nil
}

// ClearSession empties the session, removes both storage keys and notifies observers.
// Clearing an already empty session does nothing.
func (s *SessionStore) ClearSession(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.Snapshot().IsAuthenticated() {
		return nil
	}

	s.replace(domainauth.State{})

	var delErr error
	if s.storage != nil {
		delErr = s.storage.Delete(ctx, CredentialKey, PrincipalKey)
		if delErr != nil {
			s.logger.WarnContext(ctx, "remove persisted session", "error", delErr)
		}
	}
	s.notify(domainauth.State{})

	if delErr != nil {
		return fmt.Errorf("remove persisted session: %w", delErr)
	}
	return nil
}

// Credential returns the current credential, empty when unauthenticated.
func (s *SessionStore) Credential() domainauth.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Credential
}

// Principal returns a copy of the current principal, or nil.
func (s *SessionStore) Principal() *domainauth.Principal {
	return s.Snapshot().Principal
}

// Snapshot returns the current pair. The returned principal is a copy.
func (s *SessionStore) Snapshot() domainauth.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// IsAuthenticated reports whether a credential is present.
func (s *SessionStore) IsAuthenticated() bool { return s.Snapshot().IsAuthenticated() }

// IsElevated reports whether the current principal holds the elevated role.
func (s *SessionStore) IsElevated() bool { return s.Snapshot().IsElevated() }

// Subscribe registers fn to be called with the new state after every mutation.
// Observers run synchronously on the mutating goroutine and must not mutate the store.
func (s *SessionStore) Subscribe(fn func(domainauth.State)) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *SessionStore) replace(next domainauth.State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *SessionStore) notify(state domainauth.State) {
	s.obsMu.Lock()
	fns := make([]func(domainauth.State), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(copyState(state))
	}
}

// persist writes both keys. A partial write removes both so Restore never pairs a
// credential with another session's principal.
func (s *SessionStore) persist(ctx context.Context, state domainauth.State) error {
	if s.storage == nil {
		return nil
	}
	data, err := json.Marshal(state.Principal)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	if err := s.storage.Set(ctx, PrincipalKey, string(data)); err != nil {
		return errors.Join(err, s.storage.Delete(ctx, CredentialKey, PrincipalKey))
	}
	if err := s.storage.Set(ctx, CredentialKey, state.Credential.String()); err != nil {
		return errors.Join(err, s.storage.Delete(ctx, CredentialKey, PrincipalKey))
	}
	return nil
}

// validatePrincipal holds adopted principals to the same rules Restore applies.
func validatePrincipal(p *domainauth.Principal) error {
	if p == nil {
		return apperrors.ValidationField("principal", "principal is required")
	}
	if strings.TrimSpace(p.ID) == "" {
		return apperrors.ValidationField("principal", "principal id is required")
	}
	if !p.Role.Valid() {
		return apperrors.ValidationField("principal", fmt.Sprintf("unknown role %q", p.Role))
	}
	return nil
}

func decodePrincipal(raw string) (*domainauth.Principal, error) {
	var p domainauth.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode principal: %w", err)
	}
	if !p.Role.Valid() {
		return nil, fmt.Errorf("decode principal: unknown role %q", p.Role)
	}
	return &p, nil
}

func copyState(st domainauth.State) domainauth.State {
	if st.Principal == nil {
		return st
	}
	p := *st.Principal
	return domainauth.State{Credential: st.Credential, Principal: &p}
}
