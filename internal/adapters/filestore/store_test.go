package filestore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/mmk-backoffice/internal/ports"
)

var _ ports.SessionStorage = (*Store)(nil)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, err)
	return s
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := newStore(t)
	v, ok, err := s.Get(context.Background(), "admin_token")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetGetSurvivesReopen(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "admin_token", "tok"))
	require.NoError(t, s.Set(ctx, "admin_user", `{"id":"a1"}`))

	reopened, err := New(s.Path())
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "admin_user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"a1"}`, v)

	if runtime.GOOS != "windows" {
		info, statErr := os.Stat(s.Path())
		require.NoError(t, statErr)
		assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
	}
}

func TestStore_DeleteRemovesFileWhenEmpty(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "admin_token", "tok"))
	require.NoError(t, s.Set(ctx, "admin_user", "{}"))
	require.NoError(t, s.Set(ctx, "other", "x"))

	require.NoError(t, s.Delete(ctx, "admin_token", "admin_user"))
	_, ok, err := s.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "other"))
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Delete(ctx, "absent"))
}

func TestStore_CorruptFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), dirPerm))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), filePerm))

	_, _, err := s.Get(context.Background(), "admin_token")
	require.Error(t, err)

	require.NoError(t, s.Set(context.Background(), "admin_token", "fresh"))
	v, ok, err := s.Get(context.Background(), "admin_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestStore_CanceledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
	_, _, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set(ctx, "admin_token", "tok"))
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
