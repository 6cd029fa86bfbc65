package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
