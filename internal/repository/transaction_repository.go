package repository

import (
	"context"
	"time"

	"github.com/financasgo/backend/internal/model"
)

// TransactionRepository handles persistence for transactions.
type TransactionRepository interface {
	// ListByUser returns the user's transactions newest-first, narrowed by
	// the filter's equality and date-range predicates.
	ListByUser(ctx context.Context, userID string, filter model.TransactionFilter, limit, offset int) ([]*model.Transaction, error)
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	Create(ctx context.Context, t *model.Transaction) error
	Patch(ctx context.Context, id string, patch model.TransactionPatch) error
	Delete(ctx context.Context, id string) error
	// SumByType returns the signed total of the user's transactions of the
	// given type inside [from, to).
	SumByType(ctx context.Context, userID, txType string, from, to time.Time) (float64, error)
	// CardUsage returns the total charged to a card since the given
	// statement-cycle start.
	CardUsage(ctx context.Context, cardID string, since time.Time) (float64, error)
}
