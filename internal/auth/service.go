package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service owns account lifecycle operations above the raw store:
// login, registration by admins, role and active-flag changes.
type Service struct {
	store AccountStore
	codec *Codec
}

// NewService wires the account store with the token codec.
func NewService(store AccountStore, codec *Codec) (*Service, error) {
	if store == nil {
		return nil, errors.New("account store is required")
	}
	if codec == nil {
		return nil, errors.New("token codec is required")
	}
	return &Service{store: store, codec: codec}, nil
}

// Login verifies credentials and issues a session token. Unknown
// email, wrong password and deactivated account all collapse to
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !acc.Active {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := CheckPassword(acc.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.codec.Issue(acc)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now().UTC()
	if err := s.store.TouchLastLogin(ctx, acc.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	acc.LastLoginAt = &now
	return acc, token, expiresAt, nil
}

// CreateAccount registers a new account. Email uniqueness is enforced
// by the store and surfaces as ErrConflict.
func (s *Service) CreateAccount(ctx context.Context, email, password, name string, role Role) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if role.Rank() == 0 {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := time.Now().UTC()
	acc := &Account{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// ListAccounts returns every account.
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.store.List(ctx)
}

// SetRole changes an account's role.
func (s *Service) SetRole(ctx context.Context, id string, role Role) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if role.Rank() == 0 {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.store.SetRole(ctx, id, role)
}

// SetActive flips the active flag. Deactivation is the only revocation
// mechanism for outstanding tokens.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	return s.store.SetActive(ctx, id, active)
}
