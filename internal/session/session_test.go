package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs", "session.json")

	s, err := Open(path)
	require.NoError(t, err)

	_, ok := s.CurrentUserID()
	assert.False(t, ok, "fresh store is logged out")

	require.NoError(t, s.Save(42))
	id, ok := s.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	t.Run("survives reopen", func(t *testing.T) {
		reopened, err := Open(path)
		require.NoError(t, err)
		id, ok := reopened.CurrentUserID()
		require.True(t, ok)
		assert.Equal(t, int64(42), id)
	})

	t.Run("clear logs out", func(t *testing.T) {
		require.NoError(t, s.Clear())
		_, ok := s.CurrentUserID()
		assert.False(t, ok)

		reopened, err := Open(path)
		require.NoError(t, err)
		_, ok = reopened.CurrentUserID()
		assert.False(t, ok)
	})
}

func TestOpen_ReadsMixedCaseKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"userId": 7, "theme": "dark"}`), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	id, ok := s.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	require.NoError(t, s.Clear())
	reopened, err := Open(path)
	require.NoError(t, err)
	_, ok = reopened.CurrentUserID()
	assert.False(t, ok)
	assert.Equal(t, "dark", reopened.v.GetString("theme"))
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}
