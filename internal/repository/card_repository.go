package repository

import (
	"context"

	"github.com/financasgo/backend/internal/model"
)

// CardRepository handles persistence for credit cards.
type CardRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Card, error)
	GetByID(ctx context.Context, id string) (*model.Card, error)
	Create(ctx context.Context, c *model.Card) error
	Patch(ctx context.Context, id string, patch model.CardPatch) error
	Delete(ctx context.Context, id string) error
}
