package session

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTheme_defaultsToLight(t *testing.T) {
	theme, err := LoadTheme(filepath.Join(t.TempDir(), "theme.toml"))
	require.NoError(t, err)
	require.False(t, theme.IsDark())
}

func TestTheme_togglePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio", "theme.toml")

	theme, err := LoadTheme(path)
	require.NoError(t, err)
	require.NoError(t, theme.Toggle())
	require.True(t, theme.IsDark())

	reloaded, err := LoadTheme(path)
	require.NoError(t, err)
	require.True(t, reloaded.IsDark())

	require.NoError(t, reloaded.Toggle())
	require.False(t, reloaded.IsDark())

	reloaded, err = LoadTheme(path)
	require.NoError(t, err)
	require.False(t, reloaded.IsDark())
}

func TestTheme_inMemory(t *testing.T) {
	theme, err := LoadTheme("")
	require.NoError(t, err)
	require.NoError(t, theme.Toggle())
	require.True(t, theme.IsDark())
}

func TestTheme_invalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	require.NoError(t, os.WriteFile(path, []byte("dark = "), 0o644))

	_, err := LoadTheme(path)
	require.Error(t, err)
}

type failingCloser struct {
	bytes.Buffer
}

func (f *failingCloser) Close() error {
	return errors.New("disk full")
}

func TestTheme_failedSaveKeepsPreference(t *testing.T) {
	theme, err := LoadTheme(filepath.Join(t.TempDir(), "theme.toml"))
	require.NoError(t, err)

	file := &failingCloser{}
	theme.create = func(string) (io.WriteCloser, error) { return file, nil }

	require.EqualError(t, theme.Toggle(), "disk full")
	require.False(t, theme.IsDark())
	require.Contains(t, file.String(), "dark = true")
}

func TestTheme_unwritablePath(t *testing.T) {
	dir := t.TempDir()
	theme, err := LoadTheme(filepath.Join(dir, "theme.toml"))
	require.NoError(t, err)
	theme.path = dir

	require.Error(t, theme.Toggle())
	require.False(t, theme.IsDark())
}
