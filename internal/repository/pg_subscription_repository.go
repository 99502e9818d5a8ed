package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/financasgo/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubscriptionRepository returns a PostgreSQL-backed SubscriptionRepository.
func NewPgSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &pgSubscriptionRepository{pool: pool}
}

const subscriptionSelectCols = `id, user_id, mercadopago_subscription_id, plan, status, amount, created_at, updated_at`

func scanSubscription(scan func(...any) error) (*model.Subscription, error) {
	s := &model.Subscription{}
	err := scan(&s.ID, &s.UserID, &s.MercadoPagoSubscriptionID, &s.Plan, &s.Status, &s.Amount, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *pgSubscriptionRepository) Create(ctx context.Context, s *model.Subscription) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, mercadopago_subscription_id, plan, status, amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.UserID, s.MercadoPagoSubscriptionID, s.Plan, s.Status, s.Amount,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *pgSubscriptionRepository) GetByGatewayID(ctx context.Context, gatewayID string) (*model.Subscription, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subscriptionSelectCols+` FROM subscriptions WHERE mercadopago_subscription_id = $1`, gatewayID)
	return scanSubscription(row.Scan)
}

func (r *pgSubscriptionRepository) GetByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subscriptionSelectCols+` FROM subscriptions
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
	return scanSubscription(row.Scan)
}

func (r *pgSubscriptionRepository) UpdateStatus(ctx context.Context, gatewayID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = NOW()
		 WHERE mercadopago_subscription_id = $2`,
		status, gatewayID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
