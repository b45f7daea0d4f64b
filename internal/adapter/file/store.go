// Package file persists the raw catalogue response on local disk.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/quake-stats/internal/domain"
)

// Store reads and writes one raw GeoJSON file.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Save writes raw verbatim, creating parent directories as needed.
func (s *Store) Save(raw []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Load reads the file and parses it into a Dataset.
func (s *Store) Load() (domain.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	ds, err := domain.ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return ds, nil
}
