package ports

import "errors"

var (
	ErrKeyNotFound = errors.New("key not found")
	// ErrCorruptRecord marks a stored record that exists but cannot be decoded.
	ErrCorruptRecord = errors.New("stored record is corrupt")
)
