package internalerr

import "errors"

// Sentinel errors for common pipeline failure cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrEmptyResult      = errors.New("empty intermediate result")
)
