package service

import "errors"

// Sentinel kinds for recommendation errors.
var (
	ErrInvalidProjectID = errors.New("invalid project id")
	ErrNotFound         = errors.New("project not found")
	ErrRepository       = errors.New("repository failure")
	ErrNotStarted       = errors.New("service not started")
)
