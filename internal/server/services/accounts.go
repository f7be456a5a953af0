// Package services contains the application services that orchestrate the
// hasher, the account store, and the token layer.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/hasher"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/accounts"
	"github.com/google/uuid"
)

// CredentialHasher is the subset of the hasher used by the service.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// dummyCredentialHash is verified against when the account does not exist,
// so a login probe costs the same whether or not the email is registered.
// It is a fake hash that never matches any password.
const dummyCredentialHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

type AccountService struct {
	repo          accounts.Repository
	hasher        CredentialHasher
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewAccountService(repo accounts.Repository, h CredentialHasher, cfg *config.Config) *AccountService {
	return &AccountService{
		repo:          repo,
		hasher:        h,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// NewHasherFromConfig builds the argon2id hasher with the configured work factor.
func NewHasherFromConfig(cfg *config.Config) *hasher.Argon2idHasher {
	return hasher.NewArgon2idHasher(hasher.Params{
		TimeCost:    cfg.HashTimeCost,
		MemoryKiB:   cfg.HashMemoryKiB,
		Parallelism: cfg.HashParallelism,
	}, cfg.MaxPasswordLength)
}

// Register creates a new account for the given raw credentials.
//
// The email is normalized before any other step, the password is hashed
// before the insert, and uniqueness is settled solely by the store's atomic
// check-and-insert. On a collision the already-computed hash is discarded;
// nothing is persisted partially.
//
// Failure kinds: *common.ValidationError (missing/oversized input),
// common.ErrDuplicateAccount, common.ErrHashing, common.ErrStorage.
func (s *AccountService) Register(ctx context.Context, rawEmail, name, password string) (*models.Account, error) {

	email := models.NormalizeEmail(rawEmail)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, common.NewValidationError(missing...)
	}

	credentialHash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			return nil, common.NewValidationError("password")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrHashing, err)
	}

	account := &models.Account{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           name,
		CredentialHash: credentialHash,
	}

	account, err = s.repo.CreateIfAbsent(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return account, nil
}

// Login verifies the credentials and issues a signed session token.
// An unknown email and a wrong password both fail with
// common.ErrorUnauthorized; the two cases are indistinguishable to the
// caller and take comparable time.
func (s *AccountService) Login(ctx context.Context, rawEmail, password string) (string, error) {

	email := models.NormalizeEmail(rawEmail)

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same hashing cost as for an existing account
			_, _ = s.hasher.Verify(password, dummyCredentialHash)
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	ok, err := s.hasher.Verify(password, account.CredentialHash)
	if err != nil {
		// a stored hash that no longer parses is an infrastructure defect
		return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(account.ID, account.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", err
	}

	return token, nil
}

// VerifyToken validates a presented bearer token and returns the identity
// it is bound to. It never touches the account store; callers needing fresh
// account state fetch it themselves.
func (s *AccountService) VerifyToken(tokenString string) (*auth.Identity, error) {
	return auth.VerifyToken(tokenString, s.jwtSecret)
}
