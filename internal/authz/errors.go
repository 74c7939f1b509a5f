package authz

import "errors"

var (
	// ErrUnauthorized means no principal was present where one is required.
	ErrUnauthorized = errors.New("authz: unauthorized")
	// ErrForbidden means the principal lacks the required role, ownership
	// or admin credential.
	ErrForbidden = errors.New("authz: forbidden")
	// ErrInvalidOperation marks a logically contradictory request, such as
	// a self-follow or accepting an already resolved request.
	ErrInvalidOperation = errors.New("authz: invalid operation")
)
