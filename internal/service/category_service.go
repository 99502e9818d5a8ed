package service

import (
	"context"
	"errors"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

// CategoryService provides business logic for category management.
type CategoryService interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Category, error)
	Create(ctx context.Context, userID string, c *model.Category) (*model.Category, error)
	Patch(ctx context.Context, id, userID string, patch model.CategoryPatch) error
	Delete(ctx context.Context, id, userID string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func validCategoryType(t string) bool {
	return t == model.TxIncome || t == model.TxExpense
}

func (s *categoryService) ListByUser(ctx context.Context, userID string) ([]*model.Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *categoryService) Create(ctx context.Context, userID string, c *model.Category) (*model.Category, error) {
	if c.Name == "" {
		return nil, errors.New("name is required")
	}
	if !validCategoryType(c.Type) {
		return nil, errors.New("category type must be income or expense")
	}
	c.UserID = userID
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Patch(ctx context.Context, id, userID string, patch model.CategoryPatch) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	if patch.Type != nil && !validCategoryType(*patch.Type) {
		return errors.New("category type must be income or expense")
	}
	return s.repo.Patch(ctx, id, patch)
}

func (s *categoryService) Delete(ctx context.Context, id, userID string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
