package auth

import (
	"context"
	"time"
)

// Account is a CMS identity record. Accounts are created by the seed
// tooling and mutated by admins; the core never hard-deletes them.
// Deactivation is the revocation mechanism: an inactive account is
// unauthenticated no matter how valid its outstanding tokens are.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AuthState is the projection the Authenticator re-reads on every
// request: just enough to know whether the account is still usable.
type AuthState struct {
	Active bool
	Role   Role
}

// AccountStore describes persistence operations required by the auth
// subsystem. The Postgres implementation lives in internal/store/pg.
type AccountStore interface {
	Create(ctx context.Context, acc *Account) error
	Find(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	// AuthStateByID projects only the active flag and role.
	AuthStateByID(ctx context.Context, id string) (AuthState, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	SetRole(ctx context.Context, id string, role Role) error
	SetActive(ctx context.Context, id string, active bool) error
}
