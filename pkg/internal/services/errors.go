package services

import "errors"

// Every error returned by this package wraps one of these, the http layer
// picks the status code with errors.Is.
var (
	ErrValidation       = errors.New("invalid request")
	ErrConflict         = errors.New("already exists")
	ErrUnauthenticated  = errors.New("invalid credentials")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
)
