package board

import (
	"context"
	"encoding/json"

	"birlik.org/internal/store/file"
)

// FileStore adapts the flat-file store to the FallbackStore interface.
type FileStore struct {
	store *file.Store
}

// NewFileStore wraps an open flat-file store.
func NewFileStore(store *file.Store) *FileStore {
	return &FileStore{store: store}
}

var _ FallbackStore = (*FileStore)(nil)

// ReadAll parses the whole file as a member list. Missing file reads
// as an empty roster.
func (f *FileStore) ReadAll(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := f.store.Load(ctx, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []Member{}
	}
	return members, nil
}

// Append adds a member under the file lock, idempotently on
// (group, name, position): the existing record wins when the identity
// tuple is already present.
func (f *FileStore) Append(ctx context.Context, m *Member) (*Member, error) {
	result := m
	err := f.store.Update(ctx, func(records []json.RawMessage) ([]json.RawMessage, error) {
		for _, raw := range records {
			var existing Member
			if err := json.Unmarshal(raw, &existing); err != nil {
				continue
			}
			if sameIdentity(&existing, m) {
				result = &existing
				return records, nil
			}
		}
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		return append(records, raw), nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
