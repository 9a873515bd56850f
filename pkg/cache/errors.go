package cache

import "errors"

var (
	// ErrNotFound is returned for a missing or expired key.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("cache: closed")

	// ErrCodec is returned when a value cannot be encoded or decoded.
	ErrCodec = errors.New("cache: codec failure")
)
