package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound    = errors.New("project not found")
	ErrInvalidSeed = errors.New("invalid seed data")
	ErrUnavailable = errors.New("store unavailable")
)
