// Package store persists the most recently extracted palette between runs.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/pixelpalette/internal/colour"
)

const (
	// LastKey is the fixed key the last palette is stored under.
	LastKey = "pixelpalette:last"

	// EnvStateDir overrides the directory records are kept in.
	EnvStateDir = "PIXELPALETTE_STATE_DIR"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no saved palette")

// Store keeps palette records as files in a directory, one file per key.
type Store struct {
	dir string
	key string
}

// New returns a Store rooted at dir holding the last-result record.
func New(dir string) *Store {
	return &Store{dir: dir, key: LastKey}
}

// DefaultDir returns the state directory: $PIXELPALETTE_STATE_DIR, or
// pixelpalette/ under the user cache directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to home directory if cache dir not available.
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine state directory: %w", err)
		}
		return filepath.Join(home, ".cache", "pixelpalette"), nil
	}
	return filepath.Join(cacheDir, "pixelpalette"), nil
}

// Path returns the file backing the record.
func (s *Store) Path() string {
	return filepath.Join(s.dir, strings.ReplaceAll(s.key, ":", "-")+".json")
}

// Save replaces the stored record with p.
func (s *Store) Save(p *colour.Palette) error {
	if p == nil {
		return fmt.Errorf("palette cannot be nil")
	}

	data, err := p.MarshalRecord()
	if err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil { // #nosec G301 - State directory needs standard permissions
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Write then rename so a crash never leaves a half-written record.
	tmp, err := os.CreateTemp(s.dir, ".last-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write palette record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close palette record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("failed to store palette record: %w", err)
	}

	return nil
}

// Load returns the stored palette, or ErrNotFound when none exists.
func (s *Store) Load() (*colour.Palette, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read palette record: %w", err)
	}

	return colour.ParseRecord(data)
}

// Clear removes the stored record. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove palette record: %w", err)
	}
	return nil
}
