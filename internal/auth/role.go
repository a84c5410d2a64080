package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of permission levels known to the CMS.
// Authorization is a pure rank comparison; there are no per-action
// grants.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Roles lists every valid role, highest rank first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleViewer}
}

// ParseRole validates a role string coming from the outside (request
// bodies, seed files). Unknown values are rejected here so they can
// never reach a rank comparison.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

// Rank maps a role to its numeric level. Anything outside the closed
// set ranks as zero, so a corrupted token can never satisfy a check.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Satisfies reports whether r meets the required permission level.
// An unknown role on either side fails: required ranks of zero are
// unsatisfiable rather than free.
func (r Role) Satisfies(required Role) bool {
	req := required.Rank()
	if req == 0 {
		return false
	}
	return r.Rank() >= req
}
