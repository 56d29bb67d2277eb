package domain

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
)

// Conflict and lookup errors.
var (
	ErrEmailTaken      = errors.New("email already in use")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session id already in use")
)

// Auth errors. ErrInvalidCredentials is returned both for unknown emails and
// wrong passwords.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidSession     = errors.New("invalid session")
)

// StorageError wraps a failure of the underlying persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SessionError wraps a failure while validating or destroying a session.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
