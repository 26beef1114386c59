package service

import "errors"

// Domain errors. Handlers map them onto HTTP statuses with errors.Is.
var (
	ErrNotFound         = errors.New("quote not found")
	ErrNoMatch          = errors.New("no quote matches the requested tags")
	ErrNoCriteria       = errors.New("no usable tags in request")
	ErrConflict         = errors.New("quote id already exists")
	ErrValidation       = errors.New("invalid input")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidKey       = errors.New("invalid registration key")
	ErrStoreUnavailable = errors.New("quote store unavailable")
)
