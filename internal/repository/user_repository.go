package repository

import (
	"context"

	"github.com/financasgo/backend/internal/model"
)

// UserRepository handles persistence for users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	// UpdateSubscription applies the billing fields set in the patch.
	UpdateSubscription(ctx context.Context, id string, patch model.UserPatch) error
}
