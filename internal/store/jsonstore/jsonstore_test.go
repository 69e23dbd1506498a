package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/chorequest/internal/store"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "storage.json"))
	require.NoError(t, err)
	_, ok, err := s.Get("anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetPersistsAcrossOpen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg", "storage.json")
	s, err := Open(p)
	require.NoError(t, err)
	require.NoError(t, s.Set(store.KeyAPIKey, `"abc"`))
	require.NoError(t, s.Set(store.KeyDarkMode, "true"))

	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	again, err := Open(p)
	require.NoError(t, err)
	v, ok, err := again.Get(store.KeyAPIKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"abc"`, v)

	require.NoError(t, again.Delete(store.KeyAPIKey))
	require.NoError(t, again.Delete("never-set"))
	third, err := Open(p)
	require.NoError(t, err)
	_, ok, _ = third.Get(store.KeyAPIKey)
	assert.False(t, ok)
}

func TestOpenRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(p, []byte("{nope"), 0o600))
	_, err := Open(p)
	require.Error(t, err)
}

func TestBacksPersistentStore(t *testing.T) {
	p := filepath.Join(t.TempDir(), "storage.json")
	s, err := Open(p)
	require.NoError(t, err)

	id := 7
	sel, err := store.NewPersistent[*int](s, store.KeySelectedUser, nil)
	require.NoError(t, err)
	require.NoError(t, sel.Set(&id))

	reopened, err := Open(p)
	require.NoError(t, err)
	sel2, err := store.NewPersistent[*int](reopened, store.KeySelectedUser, nil)
	require.NoError(t, err)
	require.NotNil(t, sel2.Get())
	assert.Equal(t, 7, *sel2.Get())
}
