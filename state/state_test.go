package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCarets(t *testing.T) {
	dir := t.TempDir()
	store := Open(filepath.Join(dir, ".richedit", "state.yml"))
	file := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	t.Run("empty store", func(t *testing.T) {
		st, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, st.Carets)

		_, ok, err := store.Caret(file)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.SetCaret(file, 42))
		pos, ok, err := store.Caret(file)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 42, pos)

		other := filepath.Join(dir, "other.md")
		require.NoError(t, store.SetCaret(other, 7))
		pos, _, err = store.Caret(file)
		require.NoError(t, err)
		assert.Equal(t, 42, pos)
	})

	t.Run("relative paths share the key", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		defer os.Chdir(wd)

		pos, ok, err := store.Caret("notes.md")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 42, pos)
	})
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("carets: [not, a, map"), 0644))

	_, err := Open(path).Load()
	assert.Error(t, err)
}
