package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NOTES", "notes")

	got, err := Expand("~/docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "docs", "a.md"), got)

	got, err = Expand("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = Expand("$HOME/$NOTES/b.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "b.md"), got)

	got, err = Expand("rel.md")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestKeyResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.md")
	link := filepath.Join(dir, "link.md")
	require.NoError(t, os.WriteFile(real, []byte("x"), 0644))
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	a, err := Key(real)
	require.NoError(t, err)
	b, err := Key(link)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	missing, err := Key(filepath.Join(dir, "missing.md"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(missing))
}
