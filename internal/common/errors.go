package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrValidation             = errors.New("validation error")
	ErrDuplicateEmail         = errors.New("email already in use")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrForbidden              = errors.New("forbidden")
	ErrAlreadyJoined          = errors.New("already joined")
	ErrNotFoundOrUnauthorized = errors.New("event not found or not authorized")
	ErrStorageNotConfigured   = errors.New("object storage not configured")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
