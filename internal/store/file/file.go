// Package file implements the legacy flat-file store: a whole-file
// JSON array read and written as UTF-8 text, no partial access.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Store guards one JSON-array file. The legacy implementation did
// read-modify-write with no locking and lost racing updates; the mutex
// here closes that hole for in-process writers.
type Store struct {
	mu   sync.Mutex
	path string
}

// New points the store at a file path. The file does not need to
// exist: a missing file reads as an empty array.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load decodes the whole file into dst, which must be a pointer to a
// slice. A missing file leaves dst untouched and returns nil.
func (s *Store) Load(ctx context.Context, dst any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(dst)
}

// Save replaces the whole file with a pretty-printed JSON array.
func (s *Store) Save(ctx context.Context, src any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(src)
}

// Update runs a read-modify-write cycle atomically with respect to
// other callers of this Store. fn receives the decoded raw records and
// returns the records to persist.
func (s *Store) Update(ctx context.Context, fn func(records []json.RawMessage) ([]json.RawMessage, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []json.RawMessage
	if err := s.load(&records); err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return s.save(next)
}

func (s *Store) load(dst any) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) save(src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
