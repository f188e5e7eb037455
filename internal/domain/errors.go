package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique entity already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput marks caller mistakes; wrap it with the reason.
	ErrInvalidInput = errors.New("invalid input")
)
