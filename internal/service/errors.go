package service

import "errors"

var (
	// ErrNotFound is returned when the addressed record does not exist,
	// or when a submitted record does not belong to the addressed route
	ErrNotFound = errors.New("record not found")

	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)
