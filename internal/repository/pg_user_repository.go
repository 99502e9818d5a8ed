package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/financasgo/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository is the PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository returns a PostgreSQL-backed UserRepository.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userSelectCols = `id, email, COALESCE(full_name, ''), password_hash,
	subscription_status, COALESCE(subscription_plan, ''), subscription_end_date,
	COALESCE(mercadopago_customer_id, ''), created_at, updated_at`

func scanUser(scan func(...any) error) (*model.User, error) {
	u := &model.User{}
	err := scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash,
		&u.SubscriptionStatus, &u.SubscriptionPlan, &u.SubscriptionEndDate,
		&u.MercadoPagoCustomerID, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = $1`, id)
	return scanUser(row.Scan)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE email = $1`, email)
	return scanUser(row.Scan)
}

func (r *PgUserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, full_name, password_hash, subscription_status)
		 VALUES ($1, NULLIF($2, ''), $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.Email, user.FullName, user.PasswordHash, user.SubscriptionStatus,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *PgUserRepository) UpdateSubscription(ctx context.Context, id string, patch model.UserPatch) error {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	if patch.SubscriptionStatus != nil {
		setClauses = append(setClauses, fmt.Sprintf("subscription_status = $%d", argIdx))
		args = append(args, *patch.SubscriptionStatus)
		argIdx++
	}
	if patch.SubscriptionPlan != nil {
		setClauses = append(setClauses, fmt.Sprintf("subscription_plan = NULLIF($%d, '')", argIdx))
		args = append(args, *patch.SubscriptionPlan)
		argIdx++
	}
	if patch.SubscriptionEndDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("subscription_end_date = $%d", argIdx))
		args = append(args, *patch.SubscriptionEndDate)
		argIdx++
	}
	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
