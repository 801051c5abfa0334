package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoQueries     = errors.New("no queries specified")
	ErrContradiction = errors.New("contradictory initial facts")
	ErrInvalidConfig = errors.New("invalid configuration")
)
