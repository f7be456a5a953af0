package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// InMemoryRepository keeps accounts in a map keyed by normalized email.
// The mutex is held across the existence check and the insert, preserving
// the same check-and-insert atomicity the Postgres unique constraint gives.
type InMemoryRepository struct {
	mu       sync.Mutex
	accounts map[string]models.Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]models.Account)}
}

func (r *InMemoryRepository) CreateIfAbsent(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := *account
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.accounts[stored.Email] = stored

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[email]
	if !ok {
		return nil, common.ErrorNotFound
	}

	result := stored
	return &result, nil
}
