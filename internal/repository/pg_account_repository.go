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

type pgAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgAccountRepository returns a PostgreSQL-backed AccountRepository.
func NewPgAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &pgAccountRepository{pool: pool}
}

const accountSelectCols = `id, user_id, name, type, balance, COALESCE(emoji, ''), COALESCE(color, ''), created_at`

func scanAccount(scan func(...any) error) (*model.Account, error) {
	a := &model.Account{}
	err := scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Emoji, &a.Color, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *pgAccountRepository) ListByUser(ctx context.Context, userID string) ([]*model.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountSelectCols+` FROM accounts WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *pgAccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountSelectCols+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row.Scan)
}

func (r *pgAccountRepository) Create(ctx context.Context, a *model.Account) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO accounts (user_id, name, type, balance, emoji, color)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		 RETURNING id, created_at`,
		a.UserID, a.Name, a.Type, a.Balance, a.Emoji, a.Color,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *pgAccountRepository) Patch(ctx context.Context, id string, patch model.AccountPatch) error {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	add := func(clause string, v any) {
		setClauses = append(setClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, v)
		argIdx++
	}
	if patch.Name != nil {
		add("name = $%d", *patch.Name)
	}
	if patch.Type != nil {
		add("type = $%d", *patch.Type)
	}
	if patch.Balance != nil {
		add("balance = $%d", *patch.Balance)
	}
	if patch.Emoji != nil {
		add("emoji = NULLIF($%d, '')", *patch.Emoji)
	}
	if patch.Color != nil {
		add("color = NULLIF($%d, '')", *patch.Color)
	}
	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d",
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

func (r *pgAccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgAccountRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
