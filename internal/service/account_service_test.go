package service

import (
	"context"
	"errors"
	"testing"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock AccountRepository
// ---------------------------------------------------------------------------

type mockAccountRepository struct {
	listByUserFunc    func(ctx context.Context, userID string) ([]*model.Account, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.Account, error)
	createFunc        func(ctx context.Context, a *model.Account) error
	patchFunc         func(ctx context.Context, id string, patch model.AccountPatch) error
	deleteFunc        func(ctx context.Context, id string) error
	adjustBalanceFunc func(ctx context.Context, id string, delta float64) error
}

func (m *mockAccountRepository) ListByUser(ctx context.Context, userID string) ([]*model.Account, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, nil
}
func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockAccountRepository) Create(ctx context.Context, a *model.Account) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return nil
}
func (m *mockAccountRepository) Patch(ctx context.Context, id string, patch model.AccountPatch) error {
	if m.patchFunc != nil {
		return m.patchFunc(ctx, id, patch)
	}
	return nil
}
func (m *mockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockAccountRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	if m.adjustBalanceFunc != nil {
		return m.adjustBalanceFunc(ctx, id, delta)
	}
	return nil
}

// ---------------------------------------------------------------------------
// AccountService tests
// ---------------------------------------------------------------------------

func TestAccountService_Create_SetsOwner(t *testing.T) {
	var created *model.Account
	mock := &mockAccountRepository{
		createFunc: func(ctx context.Context, a *model.Account) error {
			a.ID = "a1"
			created = a
			return nil
		},
	}
	svc := NewAccountService(mock)

	a, err := svc.Create(context.Background(), "u1", &model.Account{Name: "Nubank", Type: model.AccountChecking})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "a1" {
		t.Errorf("expected id a1, got %q", a.ID)
	}
	if created.UserID != "u1" {
		t.Errorf("expected owner u1, got %q", created.UserID)
	}
}

func TestAccountService_Create_InvalidType(t *testing.T) {
	svc := NewAccountService(&mockAccountRepository{})

	if _, err := svc.Create(context.Background(), "u1", &model.Account{Name: "X", Type: "crypto"}); err == nil {
		t.Fatal("expected error for invalid account type")
	}
}

func TestAccountService_Patch_ForbiddenOtherUser(t *testing.T) {
	mock := &mockAccountRepository{
		getByIDFunc: func(ctx context.Context, id string) (*model.Account, error) {
			return &model.Account{ID: id, UserID: "other"}, nil
		},
	}
	svc := NewAccountService(mock)

	name := "renamed"
	err := svc.Patch(context.Background(), "a1", "u1", model.AccountPatch{Name: &name})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_Patch_InvalidType(t *testing.T) {
	mock := &mockAccountRepository{
		getByIDFunc: func(ctx context.Context, id string) (*model.Account, error) {
			return &model.Account{ID: id, UserID: "u1"}, nil
		},
	}
	svc := NewAccountService(mock)

	bad := "crypto"
	if err := svc.Patch(context.Background(), "a1", "u1", model.AccountPatch{Type: &bad}); err == nil {
		t.Fatal("expected error for invalid account type")
	}
}

func TestAccountService_Delete_NotFound(t *testing.T) {
	svc := NewAccountService(&mockAccountRepository{})

	err := svc.Delete(context.Background(), "missing", "u1")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
