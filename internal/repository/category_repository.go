package repository

import (
	"context"

	"github.com/financasgo/backend/internal/model"
)

// CategoryRepository handles persistence for categories.
type CategoryRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Patch(ctx context.Context, id string, patch model.CategoryPatch) error
	Delete(ctx context.Context, id string) error
}
