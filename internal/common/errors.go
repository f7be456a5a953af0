// Package common defines shared sentinel errors used across AuthKeeper
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Registration errors.
	ErrDuplicateAccount = errors.New("account already exists")
	ErrInvalidInput     = errors.New("invalid input")

	// Infrastructure errors (configuration defect or unavailable collaborator).
	ErrHashing = errors.New("hashing failure")
	ErrSigning = errors.New("signing failure")
	ErrStorage = errors.New("storage unavailable")

	// Credential hash errors.
	ErrCorruptHash = errors.New("corrupt credential hash")

	// Token errors. Each is terminal for the presented token.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrMalformedToken   = errors.New("malformed token")

	// Authentication errors.
	ErrorUnauthorized = errors.New("unauthorized")
)
