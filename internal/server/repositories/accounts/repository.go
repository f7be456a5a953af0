// Package accounts provides the uniqueness-enforcing persistent mapping
// from normalized email to account record.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository is the account persistence boundary.
//
// CreateIfAbsent is an atomic check-and-insert: under concurrent calls with
// the same email exactly one succeeds and the rest receive
// common.ErrorAlreadyExists. Uniqueness is enforced by the store itself
// (a unique constraint or equivalent), never by a find-then-insert sequence.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateIfAbsent(ctx context.Context, account *models.Account) (*models.Account, error)
}
