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

type pgCardRepository struct {
	pool *pgxpool.Pool
}

// NewPgCardRepository returns a PostgreSQL-backed CardRepository.
func NewPgCardRepository(pool *pgxpool.Pool) CardRepository {
	return &pgCardRepository{pool: pool}
}

const cardSelectCols = `id, user_id, name, credit_limit, closing_day, due_day, COALESCE(emoji, ''), COALESCE(color, ''), created_at`

func scanCard(scan func(...any) error) (*model.Card, error) {
	c := &model.Card{}
	err := scan(&c.ID, &c.UserID, &c.Name, &c.Limit, &c.ClosingDay, &c.DueDay, &c.Emoji, &c.Color, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *pgCardRepository) ListByUser(ctx context.Context, userID string) ([]*model.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardSelectCols+` FROM cards WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Card
	for rows.Next() {
		c, err := scanCard(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *pgCardRepository) GetByID(ctx context.Context, id string) (*model.Card, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+cardSelectCols+` FROM cards WHERE id = $1`, id)
	return scanCard(row.Scan)
}

func (r *pgCardRepository) Create(ctx context.Context, c *model.Card) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO cards (user_id, name, credit_limit, closing_day, due_day, emoji, color)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		 RETURNING id, created_at`,
		c.UserID, c.Name, c.Limit, c.ClosingDay, c.DueDay, c.Emoji, c.Color,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *pgCardRepository) Patch(ctx context.Context, id string, patch model.CardPatch) error {
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
	if patch.Limit != nil {
		add("credit_limit = $%d", *patch.Limit)
	}
	if patch.ClosingDay != nil {
		add("closing_day = $%d", *patch.ClosingDay)
	}
	if patch.DueDay != nil {
		add("due_day = $%d", *patch.DueDay)
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
	query := fmt.Sprintf("UPDATE cards SET %s WHERE id = $%d",
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

func (r *pgCardRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
