package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes; anything else surfaces as an internal error.
var (
	// ErrNotFound covers both resources that do not exist and resources
	// owned by another user, so lookups never leak existence across an
	// ownership boundary.
	ErrNotFound = errors.New("resource not found")
)
