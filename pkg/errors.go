// Package pkg holds helpers shared by every layer: the domain error
// taxonomy and the JSON response writers.
package pkg

import "errors"

// Domain errors. Services wrap them with context
// (fmt.Errorf("%w: price is required", pkg.ErrBadRequest)) and the handler
// layer maps them to HTTP status codes with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)
