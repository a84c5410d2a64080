package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"birlik.org/internal/board"
)

var _ board.PrimaryStore = (*Store)(nil)

// ListByGroup returns the canonical roster for a group, ordered for
// display.
func (s *Store) ListByGroup(ctx context.Context, group board.Group) ([]board.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, position, bio, photo_url, email, phone, group_tag, sort_order, created_at
		from board_members where group_tag = $1
		order by sort_order asc, id asc
	`, string(group))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []board.Member
	for rows.Next() {
		var m board.Member
		var groupTag string
		if err := rows.Scan(&m.ID, &m.Name, &m.Position, &m.Bio, &m.PhotoURL,
			&m.Email, &m.Phone, &groupTag, &m.Order, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Group = board.Group(groupTag)
		out = append(out, m)
	}
	return out, rows.Err()
}

// FindByIdentity looks up the idempotency tuple (group, name, position).
func (s *Store) FindByIdentity(ctx context.Context, group board.Group, name, position string) (*board.Member, error) {
	var m board.Member
	var groupTag string
	err := s.db.QueryRowContext(ctx, `
		select id, name, position, bio, photo_url, email, phone, group_tag, sort_order, created_at
		from board_members where group_tag = $1 and name = $2 and position = $3
	`, string(group), name, position).Scan(&m.ID, &m.Name, &m.Position, &m.Bio,
		&m.PhotoURL, &m.Email, &m.Phone, &groupTag, &m.Order, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, board.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Group = board.Group(groupTag)
	return &m, nil
}

// Insert writes a new roster entry. The unique index on
// (group_tag, name, position) backstops the reconciler's idempotency
// check against racing creates: when the loser of such a race hits the
// index, the existing record is re-read and returned in place of the
// draft, keeping creates idempotent end to end.
func (s *Store) Insert(ctx context.Context, m *board.Member) error {
	_, err := s.db.ExecContext(ctx, `
		insert into board_members(id, name, position, bio, photo_url, email, phone, group_tag, sort_order, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, m.ID, m.Name, m.Position, m.Bio, m.PhotoURL, m.Email, m.Phone,
		string(m.Group), m.Order, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			existing, findErr := s.FindByIdentity(ctx, m.Group, m.Name, m.Position)
			if findErr != nil {
				return fmt.Errorf("board member %s/%s already exists: %w", m.Group, m.Name, findErr)
			}
			*m = *existing
			return nil
		}
		return err
	}
	return nil
}
