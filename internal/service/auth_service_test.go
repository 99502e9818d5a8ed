package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	findByIDFunc           func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc        func(ctx context.Context, email string) (*model.User, error)
	createFunc             func(ctx context.Context, u *model.User) error
	updateSubscriptionFunc func(ctx context.Context, id string, patch model.UserPatch) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}
func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	return nil
}
func (m *mockUserRepository) UpdateSubscription(ctx context.Context, id string, patch model.UserPatch) error {
	if m.updateSubscriptionFunc != nil {
		return m.updateSubscriptionFunc(ctx, id, patch)
	}
	return nil
}

// ---------------------------------------------------------------------------
// SignUp tests
// ---------------------------------------------------------------------------

func TestAuthService_SignUp_Success(t *testing.T) {
	var created *model.User
	mock := &mockUserRepository{
		createFunc: func(ctx context.Context, u *model.User) error {
			u.ID = "u1"
			created = u
			return nil
		},
	}
	svc := NewAuthService(mock)

	u, err := svc.SignUp(context.Background(), "Maria Silva", "Maria@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("expected id from repo, got %q", u.ID)
	}
	if created.Email != "maria@example.com" {
		t.Errorf("expected lowercased email, got %q", created.Email)
	}
	if created.SubscriptionStatus != model.StatusTrial {
		t.Errorf("expected trial status on signup, got %q", created.SubscriptionStatus)
	}
	if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("supersecret")) != nil {
		t.Error("stored hash does not match password")
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	mock := &mockUserRepository{
		createFunc: func(ctx context.Context, u *model.User) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewAuthService(mock)

	_, err := svc.SignUp(context.Background(), "Maria", "maria@example.com", "supersecret")
	if !errors.Is(err, ErrEmailInUse) {
		t.Errorf("expected ErrEmailInUse, got %v", err)
	}
}

func TestAuthService_SignUp_ShortPassword(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{})

	if _, err := svc.SignUp(context.Background(), "Maria", "maria@example.com", "short"); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestAuthService_SignUp_InvalidEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{})

	if _, err := svc.SignUp(context.Background(), "Maria", "not-an-email", "supersecret"); err == nil {
		t.Fatal("expected error for invalid email")
	}
}

// ---------------------------------------------------------------------------
// LogIn tests
// ---------------------------------------------------------------------------

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestAuthService_LogIn_Success(t *testing.T) {
	hash := hashFor(t, "supersecret")
	mock := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(mock)

	u, err := svc.LogIn(context.Background(), "maria@example.com", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("expected u1, got %q", u.ID)
	}
}

func TestAuthService_LogIn_WrongPassword(t *testing.T) {
	hash := hashFor(t, "supersecret")
	mock := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(mock)

	_, err := svc.LogIn(context.Background(), "maria@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LogIn_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{})

	_, err := svc.LogIn(context.Background(), "nobody@example.com", "supersecret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
