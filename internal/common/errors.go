// Package common defines shared constants and sentinel errors used across
// client and server layers of VaultSync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal      = errors.New("internal error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrValidation    = errors.New("validation error")
	ErrAlreadyExists = errors.New("already exists")

	// ErrVersionConflict marks a write rejected by optimistic version
	// comparison. On the client it is never surfaced as an error: rejected
	// pushes become conflict records instead.
	ErrVersionConflict = errors.New("version conflict")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"
