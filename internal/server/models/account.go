// Package models holds the server-side domain records.
package models

import (
	"strings"
	"time"
)

// Account is the identity record keyed by normalized email.
//
// CredentialHash is the one-way credential representation produced by the
// hasher. It must never be logged or returned to any caller.
type Account struct {
	ID             string
	Email          string
	Name           string
	CredentialHash string
	CreatedAt      time.Time
}

// NormalizeEmail canonicalizes an email for use as the uniqueness key:
// surrounding whitespace is trimmed and the address is lower-cased.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
