package repository

import (
	"context"

	"github.com/financasgo/backend/internal/model"
)

// SubscriptionRepository handles persistence for gateway subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *model.Subscription) error
	GetByGatewayID(ctx context.Context, gatewayID string) (*model.Subscription, error)
	GetByUser(ctx context.Context, userID string) (*model.Subscription, error)
	UpdateStatus(ctx context.Context, gatewayID, status string) error
}
