package auth

import "errors"

var (
	// ErrInvalidToken covers every token failure: bad signature,
	// malformed structure, wrong issuer, expiry. Callers surface all of
	// them identically as an invalid or expired session.
	ErrInvalidToken = errors.New("invalid token")

	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("resource conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
