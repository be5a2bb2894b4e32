package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	apperrors "github.com/target/mmk-backoffice/internal/errors"
	"github.com/target/mmk-backoffice/internal/mocks"
	authmocks "github.com/target/mmk-backoffice/internal/mocks/auth"
)

func testPrincipal(role domainauth.Role) *domainauth.Principal {
	return &domainauth.Principal{ID: "adm-1", Email: "ops@example.com", Name: "Ops", Role: role}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestSessionStore_SetSession_PersistsBothKeys(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()
	store := NewSessionStore(SessionStoreOptions{Storage: storage})

	require.NoError(t, store.SetSession(ctx, "tok-1", testPrincipal(domainauth.RoleSupport)))

	assert.True(t, store.IsAuthenticated())
	assert.False(t, store.IsElevated())
	assert.Equal(t, domainauth.Credential("tok-1"), store.Credential())

	token, ok := storage.Value(CredentialKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)

	raw, ok := storage.Value(PrincipalKey)
	require.True(t, ok)
	var persisted domainauth.Principal
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, *testPrincipal(domainauth.RoleSupport), persisted)
}

func TestSessionStore_SetSession_RejectsPartialPair(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()
	store := NewSessionStore(SessionStoreOptions{Storage: storage})

	err := store.SetSession(ctx, "", testPrincipal(domainauth.RoleSupport))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	err = store.SetSession(ctx, "tok", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Principal())
	assert.Equal(t, 0, storage.Writes())
}

func TestSessionStore_RoundTripAcrossRestart(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()

	first := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, first.SetSession(ctx, "tok-1", testPrincipal(domainauth.RoleSuperAdmin)))

	second := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, second.Restore(ctx))

	assert.Equal(t, first.Snapshot(), second.Snapshot())
	assert.True(t, second.IsElevated())
}

func TestSessionStore_ClearSession(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()
	store := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, store.SetSession(ctx, "tok-1", testPrincipal(domainauth.RoleSupport)))

	require.NoError(t, store.ClearSession(ctx))

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Principal())
	assert.Equal(t, 0, storage.Len())

	restarted := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, restarted.Restore(ctx))
	assert.False(t, restarted.IsAuthenticated())
}

func TestSessionStore_ClearSession_IdempotentWithoutWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockSessionStorage(ctrl)
	// No storage calls are expected: gomock fails the test on any unexpected call.
	store := NewSessionStore(SessionStoreOptions{Storage: storage})

	calls := 0
	store.Subscribe(func(domainauth.State) { calls++ })

	require.NoError(t, store.ClearSession(context.Background()))
	require.NoError(t, store.ClearSession(context.Background()))
	assert.Equal(t, 0, calls)
}

func TestSessionStore_ClearSession_TwiceAfterLogin(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()
	store := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, store.SetSession(ctx, "tok", testPrincipal(domainauth.RoleSupport)))

	require.NoError(t, store.ClearSession(ctx))
	writes := storage.Writes()
	require.NoError(t, store.ClearSession(ctx))

	assert.Equal(t, writes, storage.Writes())
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_Restore(t *testing.T) {
	valid := mustJSON(t, testPrincipal(domainauth.RoleSupport))

	tests := []struct {
		name        string
		seed        map[string]string
		wantAuth    bool
		wantPurged  bool
		wantWrites  int
		wantStorage int
	}{
		{
			name:        "nothing persisted",
			seed:        nil,
			wantAuth:    false,
			wantWrites:  0,
			wantStorage: 0,
		},
		{
			name:        "complete pair",
			seed:        map[string]string{CredentialKey: "tok", PrincipalKey: valid},
			wantAuth:    true,
			wantWrites:  0,
			wantStorage: 2,
		},
		{
			name:       "credential only",
			seed:       map[string]string{CredentialKey: "tok"},
			wantPurged: true,
			wantWrites: 1,
		},
		{
			name:       "principal only",
			seed:       map[string]string{PrincipalKey: valid},
			wantPurged: true,
			wantWrites: 1,
		},
		{
			name:       "malformed principal",
			seed:       map[string]string{CredentialKey: "tok", PrincipalKey: "{not json"},
			wantPurged: true,
			wantWrites: 1,
		},
		{
			name:       "unknown role",
			seed:       map[string]string{CredentialKey: "tok", PrincipalKey: `{"id":"1","role":"root"}`},
			wantPurged: true,
			wantWrites: 1,
		},
		{
			name:       "empty credential",
			seed:       map[string]string{CredentialKey: "", PrincipalKey: valid},
			wantPurged: true,
			wantWrites: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := authmocks.NewMemoryStorage()
			for k, v := range tt.seed {
				storage.Seed(k, v)
			}
			store := NewSessionStore(SessionStoreOptions{Storage: storage})

			require.NoError(t, store.Restore(context.Background()))

			assert.Equal(t, tt.wantAuth, store.IsAuthenticated())
			assert.Equal(t, tt.wantAuth, store.Principal() != nil)
			assert.Equal(t, tt.wantWrites, storage.Writes())
			if tt.wantPurged {
				assert.Equal(t, 0, storage.Len())
			} else {
				assert.Equal(t, tt.wantStorage, storage.Len())
			}
		})
	}
}

func TestSessionStore_Restore_ReadErrorTreatedAsEmpty(t *testing.T) {
	storage := authmocks.NewMemoryStorage()
	storage.Seed(CredentialKey, "tok")
	storage.GetErr = errors.New("disk unavailable")
	store := NewSessionStore(SessionStoreOptions{Storage: storage})

	require.NoError(t, store.Restore(context.Background()))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, storage.Writes())
}

func TestSessionStore_PersistFailureKeepsMemory(t *testing.T) {
	storage := authmocks.NewMemoryStorage()
	storage.SetErr = errors.New("read-only filesystem")
	store := NewSessionStore(SessionStoreOptions{Storage: storage})

	err := store.SetSession(context.Background(), "tok", testPrincipal(domainauth.RoleSupport))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.SetErr)

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, domainauth.Credential("tok"), store.Credential())
}

func TestSessionStore_NonInteractive(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(SessionStoreOptions{})

	assert.False(t, store.Interactive())
	require.NoError(t, store.Restore(ctx))
	require.NoError(t, store.SetSession(ctx, "tok", testPrincipal(domainauth.RoleSupport)))
	assert.True(t, store.IsAuthenticated())
	require.NoError(t, store.ClearSession(ctx))
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_SubscribeNotifiesAfterMutations(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(SessionStoreOptions{Storage: authmocks.NewMemoryStorage()})

	var seen []domainauth.State
	cancel := store.Subscribe(func(st domainauth.State) { seen = append(seen, st) })

	require.NoError(t, store.SetSession(ctx, "tok", testPrincipal(domainauth.RoleSuperAdmin)))
	require.NoError(t, store.ClearSession(ctx))
	cancel()
	require.NoError(t, store.SetSession(ctx, "tok-2", testPrincipal(domainauth.RoleSupport)))

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsElevated())
	assert.False(t, seen[1].IsAuthenticated())
}

func TestSessionStore_PrincipalIsCopied(t *testing.T) {
	store := NewSessionStore(SessionStoreOptions{})
	p := testPrincipal(domainauth.RoleSupport)
	require.NoError(t, store.SetSession(context.Background(), "tok", p))

	p.Role = domainauth.RoleSuperAdmin
	got := store.Principal()
	got.Name = "changed"

	assert.False(t, store.IsElevated())
	assert.Equal(t, "Ops", store.Principal().Name)
}

func TestSessionStore_PairIsNeverTorn(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(SessionStoreOptions{Storage: authmocks.NewMemoryStorage()})

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = store.SetSession(ctx, "tok", testPrincipal(domainauth.RoleSupport))
			_ = store.ClearSession(ctx)
		}
		close(stop)
	}()

	torn := false
	for {
		select {
		case <-stop:
			wg.Wait()
			assert.False(t, torn, "observed credential without principal or vice versa")
			return
		default:
			st := store.Snapshot()
			if st.Credential.IsZero() != (st.Principal == nil) {
				torn = true
			}
		}
	}
}

func TestSessionStore_PersistOrderWithGomock(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockSessionStorage(ctrl)
	store := NewSessionStore(SessionStoreOptions{Storage: storage})
	ctx := context.Background()

	gomock.InOrder(
		storage.EXPECT().Set(gomock.Any(), PrincipalKey, gomock.Any()).Return(nil),
		storage.EXPECT().Set(gomock.Any(), CredentialKey, "tok").Return(nil),
		storage.EXPECT().Delete(gomock.Any(), CredentialKey, PrincipalKey).Return(nil),
	)

	require.NoError(t, store.SetSession(ctx, "tok", testPrincipal(domainauth.RoleSupport)))
	require.NoError(t, store.ClearSession(ctx))
}

func TestSessionStore_SetSession_RejectsUnusablePrincipal(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()
	store := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, store.SetSession(ctx, "tok-1", testPrincipal(domainauth.RoleSuperAdmin)))
	writes := storage.Writes()

	tests := []struct {
		name      string
		principal *domainauth.Principal
	}{
		{name: "zero value", principal: &domainauth.Principal{}},
		{name: "missing id", principal: &domainauth.Principal{Role: domainauth.RoleSupport}},
		{name: "unknown role", principal: &domainauth.Principal{ID: "adm-1", Role: "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SetSession(ctx, "tok-2", tt.principal)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			assert.Equal(t, domainauth.Credential("tok-1"), store.Credential())
			assert.True(t, store.IsElevated())
			assert.Equal(t, writes, storage.Writes())
		})
	}
}

func TestSessionStore_PartialPersistRemovesBothKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockSessionStorage(ctrl)
	store := NewSessionStore(SessionStoreOptions{Storage: storage})
	boom := errors.New("connection reset")

	gomock.InOrder(
		storage.EXPECT().Set(gomock.Any(), PrincipalKey, gomock.Any()).Return(nil),
		storage.EXPECT().Set(gomock.Any(), CredentialKey, "tok").Return(boom),
		storage.EXPECT().Delete(gomock.Any(), CredentialKey, PrincipalKey).Return(nil),
	)

	err := store.SetSession(context.Background(), "tok", testPrincipal(domainauth.RoleSupport))
	require.ErrorIs(t, err, boom)
	assert.True(t, store.IsAuthenticated())
}

func TestSessionStore_PartialPersistLeavesNothingToRestore(t *testing.T) {
	ctx := context.Background()
	storage := &failingCredentialStorage{MemoryStorage: authmocks.NewMemoryStorage()}
	storage.Seed(CredentialKey, "old-tok")
	storage.Seed(PrincipalKey, mustJSON(t, testPrincipal(domainauth.RoleSuperAdmin)))

	store := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.Error(t, store.SetSession(ctx, "new-tok", testPrincipal(domainauth.RoleSupport)))

	restarted := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, restarted.Restore(ctx))
	assert.False(t, restarted.IsAuthenticated())
	assert.Equal(t, 0, storage.Len())
}

// failingCredentialStorage refuses writes to the credential key only.
type failingCredentialStorage struct {
	*authmocks.MemoryStorage
}

func (s *failingCredentialStorage) Set(ctx context.Context, key, value string) error {
	if key == CredentialKey {
		return errors.New("write refused")
	}
	return s.MemoryStorage.Set(ctx, key, value)
}

func TestSessionStore_ReplacePrincipalIf(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()
	store := NewSessionStore(SessionStoreOptions{Storage: storage})

	ok, err := store.ReplacePrincipalIf(ctx, "tok", testPrincipal(domainauth.RoleSupport))
	require.NoError(t, err)
	assert.False(t, ok, "nothing to replace without a session")
	assert.False(t, store.IsAuthenticated())

	require.NoError(t, store.SetSession(ctx, "tok", testPrincipal(domainauth.RoleSupport)))

	ok, err = store.ReplacePrincipalIf(ctx, "other", testPrincipal(domainauth.RoleSuperAdmin))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, store.IsElevated())

	ok, err = store.ReplacePrincipalIf(ctx, "tok", testPrincipal(domainauth.RoleSuperAdmin))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, store.IsElevated())

	_, err = store.ReplacePrincipalIf(ctx, "tok", &domainauth.Principal{ID: "adm-1", Role: "owner"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.True(t, store.IsElevated())
}

func TestSessionStore_ReplacePrincipalIf_DoesNotResurrectClearedSession(t *testing.T) {
	ctx := context.Background()
	storage := authmocks.NewMemoryStorage()
	store := NewSessionStore(SessionStoreOptions{Storage: storage})
	require.NoError(t, store.SetSession(ctx, "tok", testPrincipal(domainauth.RoleSupport)))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = store.ClearSession(ctx)
	}()
	go func() {
		defer wg.Done()
		_, _ = store.ReplacePrincipalIf(ctx, "tok", testPrincipal(domainauth.RoleSuperAdmin))
	}()
	wg.Wait()

	// Whatever the interleaving, the clear is the last word on the session.
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, storage.Len())
}
