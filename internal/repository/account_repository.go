package repository

import (
	"context"

	"github.com/financasgo/backend/internal/model"
)

// AccountRepository handles persistence for accounts. All reads and writes
// are scoped to the owning user.
type AccountRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	Create(ctx context.Context, a *model.Account) error
	Patch(ctx context.Context, id string, patch model.AccountPatch) error
	Delete(ctx context.Context, id string) error
	// AdjustBalance adds delta (which may be negative) to the stored balance.
	AdjustBalance(ctx context.Context, id string, delta float64) error
}
