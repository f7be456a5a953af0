package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/accounts"
)

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		HashTimeCost:          1,
		HashMemoryKiB:         8 * 1024,
		HashParallelism:       1,
		MaxPasswordLength:     128,
	}
}

func newTestService(t *testing.T) (*AccountService, accounts.Repository) {
	t.Helper()
	cfg := newTestConfig()
	repo := accounts.NewInMemoryRepository()
	return NewAccountService(repo, NewHasherFromConfig(cfg), cfg), repo
}

// --- fakes ---

type fakeRepo struct {
	createOut *models.Account
	createErr error
	getOut    *models.Account
	getErr    error
}

func (f *fakeRepo) CreateIfAbsent(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return a, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeHasher struct {
	hashOut   string
	hashErr   error
	verifyOut bool
	verifyErr error
}

func (f *fakeHasher) Hash(password string) (string, error) { return f.hashOut, f.hashErr }
func (f *fakeHasher) Verify(password, encoded string) (bool, error) {
	return f.verifyOut, f.verifyErr
}

// --- register ---

func TestRegister_ThenGetByEmail_Roundtrip(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	account, err := s.Register(ctx, "  Alice@EXAMPLE.com ", "Alice", "s3cret!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if account.ID == "" {
		t.Fatalf("expected generated account id")
	}
	if account.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", account.Email)
	}

	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if stored.CredentialHash == "s3cret!" {
		t.Fatalf("credential hash must not equal the plaintext")
	}

	cfg := newTestConfig()
	ok, err := NewHasherFromConfig(cfg).Verify("s3cret!", stored.CredentialHash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("stored hash must verify against the original password")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		userName string
		password string
		fields   []string
	}{
		{"missing password", "a@b.c", "A", "", []string{"password"}},
		{"missing name", "a@b.c", "", "pw", []string{"name"}},
		{"missing email", "", "A", "pw", []string{"email"}},
		{"all missing", "", "", "", []string{"email", "name", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.email, tt.userName, tt.password)

			var ve *common.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) != len(tt.fields) {
				t.Fatalf("expected fields %v, got %v", tt.fields, ve.Fields)
			}
			for i, f := range tt.fields {
				if ve.Fields[i] != f {
					t.Fatalf("expected fields %v, got %v", tt.fields, ve.Fields)
				}
			}
		})
	}

	// validation failures must not persist anything
	if _, err := repo.GetByEmail(ctx, "a@b.c"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected nothing persisted, got %v", err)
	}
}

func TestRegister_CaseInsensitiveDuplicate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice@EXAMPLE.com", "Alice", "s3cret!"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := s.Register(ctx, "alice@example.com", "Alice2", "other")
	if !errors.Is(err, common.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestRegister_OversizedPassword(t *testing.T) {
	s, _ := newTestService(t)

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}

	_, err := s.Register(context.Background(), "a@b.c", "A", string(long))

	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRegister_HasherFailure(t *testing.T) {
	cfg := newTestConfig()
	s := NewAccountService(&fakeRepo{}, &fakeHasher{hashErr: errors.New("argon2 exploded")}, cfg)

	_, err := s.Register(context.Background(), "a@b.c", "A", "pw")
	if !errors.Is(err, common.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
}

func TestRegister_StorageFailure(t *testing.T) {
	cfg := newTestConfig()
	s := NewAccountService(&fakeRepo{createErr: errors.New("db down")}, &fakeHasher{hashOut: "h"}, cfg)

	_, err := s.Register(context.Background(), "a@b.c", "A", "pw")
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestRegister_ConcurrentSameEmail_OneWinner(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Register(ctx, "Race@Example.com", "Racer", "s3cret!")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, common.ErrDuplicateAccount):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly 1 successful registration, got %d", winners)
	}
}

// --- login / tokens ---

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	account, err := s.Register(ctx, "alice@example.com", "Alice", "s3cret!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	token, err := s.Login(ctx, "Alice@Example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	id, err := s.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if id.AccountID != account.ID {
		t.Fatalf("subject mismatch: got %q want %q", id.AccountID, account.ID)
	}
	if id.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q", id.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice@example.com", "Alice", "s3cret!"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err := s.Login(ctx, "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Login(context.Background(), "nobody@example.com", "pw")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_StorageFailure(t *testing.T) {
	cfg := newTestConfig()
	s := NewAccountService(&fakeRepo{getErr: errors.New("db down")}, &fakeHasher{}, cfg)

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestLogin_CorruptStoredHash(t *testing.T) {
	cfg := newTestConfig()
	repo := &fakeRepo{getOut: &models.Account{ID: "acc-1", Email: "a@b.c", CredentialHash: "garbage"}}
	s := NewAccountService(repo, &fakeHasher{verifyErr: common.ErrCorruptHash}, cfg)

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	if !errors.Is(err, common.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
}

func TestVerifyToken_ExpiredAfterLifetime(t *testing.T) {
	cfg := newTestConfig()
	cfg.TokenValidityDuration = -1 * time.Second // already expired when issued
	repo := accounts.NewInMemoryRepository()
	s := NewAccountService(repo, NewHasherFromConfig(cfg), cfg)
	ctx := context.Background()

	if _, err := s.Register(ctx, "a@b.c", "A", "s3cret!"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	token, err := s.Login(ctx, "a@b.c", "s3cret!")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	_, err = s.VerifyToken(token)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
