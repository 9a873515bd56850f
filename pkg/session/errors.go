package session

import "errors"

var (
	// ErrNotConfigured is returned when sessions are used on an app without a store.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when no session matches a token.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned for a session past its expiry.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken is returned for an empty or malformed token.
	ErrInvalidToken = errors.New("session: invalid token")
)
