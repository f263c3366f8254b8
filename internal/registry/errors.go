package registry

import "errors"

// Failure conditions surfaced by the client. Callers classify wrapped errors
// with errors.Is.
var (
	ErrRegistryUnreachable = errors.New("registry unreachable")
	ErrNoProjectConfig     = errors.New("no project configuration")
	ErrComponentNotFound   = errors.New("component not found")
	ErrValidation          = errors.New("invalid input")
)
