package repositories

import "errors"

// Domain errors shared by all repositories. Handlers map these onto HTTP
// statuses: ErrNotFound -> 404, ErrNotOwner -> 403, the conflict errors -> 409.
var (
	ErrNotFound        = errors.New("record not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrDuplicateFollow = errors.New("already following this user")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotOwner        = errors.New("not the owner of this resource")
)
