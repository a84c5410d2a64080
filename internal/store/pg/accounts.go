package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"birlik.org/internal/auth"
	"birlik.org/internal/ids"
)

var _ auth.AccountStore = (*Store)(nil)

// Create inserts a new account. Email uniqueness violations surface as
// auth.ErrConflict.
func (s *Store) Create(ctx context.Context, acc *auth.Account) error {
	if acc.ID == "" {
		acc.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx, `
		insert into accounts(id, email, password_hash, name, role, active, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, acc.ID, acc.Email, acc.PasswordHash, acc.Name, string(acc.Role), acc.Active, acc.CreatedAt, acc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", auth.ErrConflict, acc.Email)
		}
		return err
	}
	return nil
}

// Find loads the full account record by id.
func (s *Store) Find(ctx context.Context, id string) (*auth.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx, `
		select id, email, password_hash, name, role, active, last_login_at, created_at, updated_at
		from accounts where id = $1
	`, id))
}

// FindByEmail loads the full account record by email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx, `
		select id, email, password_hash, name, role, active, last_login_at, created_at, updated_at
		from accounts where email = $1
	`, email))
}

// List returns every account ordered by creation.
func (s *Store) List(ctx context.Context) ([]*auth.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, email, password_hash, name, role, active, last_login_at, created_at, updated_at
		from accounts order by created_at asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*auth.Account
	for rows.Next() {
		acc, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

// AuthStateByID projects only the active flag and role, the two fields
// the Authenticator re-checks per request.
func (s *Store) AuthStateByID(ctx context.Context, id string) (auth.AuthState, error) {
	var state auth.AuthState
	var role string
	err := s.db.QueryRowContext(ctx,
		`select active, role from accounts where id = $1`, id,
	).Scan(&state.Active, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.AuthState{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.AuthState{}, err
	}
	state.Role = auth.Role(role)
	return state, nil
}

// TouchLastLogin stamps a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return s.execExpectingRow(ctx,
		`update accounts set last_login_at = $2, updated_at = $2 where id = $1`, id, at)
}

// SetRole changes an account's role.
func (s *Store) SetRole(ctx context.Context, id string, role auth.Role) error {
	return s.execExpectingRow(ctx,
		`update accounts set role = $2, updated_at = now() where id = $1`, id, string(role))
}

// SetActive flips the active flag.
func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	return s.execExpectingRow(ctx,
		`update accounts set active = $2, updated_at = now() where id = $1`, id, active)
}

func (s *Store) execExpectingRow(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanAccount(row rowScanner) (*auth.Account, error) {
	acc, err := scanAccountRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	return acc, err
}

func scanAccountRow(row rowScanner) (*auth.Account, error) {
	var acc auth.Account
	var role string
	var lastLogin sql.NullTime
	err := row.Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.Name, &role,
		&acc.Active, &lastLogin, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	acc.Role = auth.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		acc.LastLoginAt = &t
	}
	return &acc, nil
}
