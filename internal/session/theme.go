package session

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

type themeFile struct {
	Dark bool `toml:"dark"`
}

// Theme is the persisted light/dark preference. It is read once by LoadTheme
// and changed only by Toggle.
type Theme struct {
	mutex sync.RWMutex
	path  string
	dark  bool

	create func(path string) (io.WriteCloser, error)
}

// LoadTheme reads the preference at path. A missing file means light. An
// empty path keeps the preference in memory only.
func LoadTheme(path string) (*Theme, error) {
	t := &Theme{path: path, create: createFile}
	if path == "" {
		return t, nil
	}

	var f themeFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return nil, err
	}

	t.dark = f.Dark
	return t, nil
}

func (t *Theme) IsDark() bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.dark
}

// Toggle flips the preference and writes it back. The in-memory value is
// kept unchanged when the write fails.
func (t *Theme) Toggle() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	next := !t.dark
	if err := t.save(next); err != nil {
		return err
	}

	t.dark = next
	return nil
}

func (t *Theme) save(dark bool) error {
	if t.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return err
	}

	file, err := t.create(t.path)
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(file).Encode(themeFile{Dark: dark}); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
