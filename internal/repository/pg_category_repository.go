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

type pgCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPgCategoryRepository returns a PostgreSQL-backed CategoryRepository.
func NewPgCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &pgCategoryRepository{pool: pool}
}

const categorySelectCols = `id, user_id, name, type, COALESCE(emoji, ''), COALESCE(color, ''), created_at`

func scanCategory(scan func(...any) error) (*model.Category, error) {
	c := &model.Category{}
	err := scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Emoji, &c.Color, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *pgCategoryRepository) ListByUser(ctx context.Context, userID string) ([]*model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+categorySelectCols+` FROM categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *pgCategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+categorySelectCols+` FROM categories WHERE id = $1`, id)
	return scanCategory(row.Scan)
}

func (r *pgCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, type, emoji, color)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		 RETURNING id, created_at`,
		c.UserID, c.Name, c.Type, c.Emoji, c.Color,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *pgCategoryRepository) Patch(ctx context.Context, id string, patch model.CategoryPatch) error {
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
	query := fmt.Sprintf("UPDATE categories SET %s WHERE id = $%d",
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

func (r *pgCategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
