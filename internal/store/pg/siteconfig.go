package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"birlik.org/internal/siteconfig"
)

var _ siteconfig.Store = (*Store)(nil)

// LoadFragment reads the persisted partial configuration. No row means
// nothing has been customized yet: an empty fragment, not an error.
func (s *Store) LoadFragment(ctx context.Context) (map[string]any, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`select fragment from site_config where id = 1`,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	var fragment map[string]any
	if err := json.Unmarshal(raw, &fragment); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	if fragment == nil {
		fragment = map[string]any{}
	}
	return fragment, nil
}

// SaveFragment upserts the singleton configuration row.
func (s *Store) SaveFragment(ctx context.Context, fragment map[string]any) error {
	raw, err := json.Marshal(fragment)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into site_config(id, fragment, updated_at)
		values (1, $1, now())
		on conflict (id) do update set fragment = excluded.fragment, updated_at = now()
	`, raw)
	return err
}
