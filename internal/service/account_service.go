package service

import (
	"context"
	"errors"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

// ErrForbidden is returned when a user tries to touch another user's resource.
var ErrForbidden = errors.New("forbidden")

// AccountService provides business logic for account management.
type AccountService interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Account, error)
	Create(ctx context.Context, userID string, a *model.Account) (*model.Account, error)
	Patch(ctx context.Context, id, userID string, patch model.AccountPatch) error
	Delete(ctx context.Context, id, userID string) error
}

type accountService struct {
	repo repository.AccountRepository
}

// NewAccountService creates an AccountService.
func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) ListByUser(ctx context.Context, userID string) ([]*model.Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *accountService) Create(ctx context.Context, userID string, a *model.Account) (*model.Account, error) {
	if a.Name == "" {
		return nil, errors.New("name is required")
	}
	if !model.ValidAccountType(a.Type) {
		return nil, errors.New("invalid account type")
	}
	a.UserID = userID
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *accountService) Patch(ctx context.Context, id, userID string, patch model.AccountPatch) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	if patch.Type != nil && !model.ValidAccountType(*patch.Type) {
		return errors.New("invalid account type")
	}
	return s.repo.Patch(ctx, id, patch)
}

func (s *accountService) Delete(ctx context.Context, id, userID string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
