package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/financasgo/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPgTransactionRepository returns a PostgreSQL-backed TransactionRepository.
func NewPgTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &pgTransactionRepository{pool: pool}
}

const txSelectCols = `id, user_id, type, amount, description, category_id, account_id, card_id,
	date, is_recurring, recurring_type, parent_transaction_id, invoice_group_id, is_paid,
	created_at, updated_at`

func scanTransaction(scan func(...any) error) (*model.Transaction, error) {
	t := &model.Transaction{}
	err := scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description,
		&t.CategoryID, &t.AccountID, &t.CardID,
		&t.Date, &t.IsRecurring, &t.RecurringType,
		&t.ParentTransactionID, &t.InvoiceGroupID, &t.IsPaid,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (r *pgTransactionRepository) ListByUser(ctx context.Context, userID string, filter model.TransactionFilter, limit, offset int) ([]*model.Transaction, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	argIdx := 2

	add := func(clause string, v any) {
		where = append(where, fmt.Sprintf(clause, argIdx))
		args = append(args, v)
		argIdx++
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.AccountID != "" {
		add("account_id = $%d", filter.AccountID)
	}
	if filter.CardID != "" {
		add("card_id = $%d", filter.CardID)
	}
	if !filter.From.IsZero() {
		add("date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("date < $%d", filter.To)
	}

	query := fmt.Sprintf(`SELECT `+txSelectCols+` FROM transactions
		 WHERE %s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *pgTransactionRepository) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+txSelectCols+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row.Scan)
}

func (r *pgTransactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO transactions
		 (user_id, type, amount, description, category_id, account_id, card_id,
		  date, is_recurring, recurring_type, parent_transaction_id, invoice_group_id, is_paid)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Type, t.Amount, t.Description, t.CategoryID, t.AccountID, t.CardID,
		t.Date, t.IsRecurring, t.RecurringType, t.ParentTransactionID, t.InvoiceGroupID, t.IsPaid,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *pgTransactionRepository) Patch(ctx context.Context, id string, patch model.TransactionPatch) error {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	add := func(clause string, v any) {
		setClauses = append(setClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, v)
		argIdx++
	}
	if patch.Amount != nil {
		add("amount = $%d", *patch.Amount)
	}
	if patch.Description != nil {
		add("description = $%d", *patch.Description)
	}
	if patch.CategoryID != nil {
		add("category_id = NULLIF($%d, '')", *patch.CategoryID)
	}
	if patch.Date != nil {
		add("date = $%d", *patch.Date)
	}
	if patch.IsPaid != nil {
		add("is_paid = $%d", *patch.IsPaid)
	}
	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id = $%d",
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

func (r *pgTransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgTransactionRepository) SumByType(ctx context.Context, userID, txType string, from, to time.Time) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::float8
		 FROM transactions
		 WHERE user_id = $1 AND type = $2 AND date >= $3 AND date < $4`,
		userID, txType, from, to,
	).Scan(&sum)
	return sum, err
}

func (r *pgTransactionRepository) CardUsage(ctx context.Context, cardID string, since time.Time) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::float8
		 FROM transactions
		 WHERE card_id = $1 AND date >= $2`,
		cardID, since,
	).Scan(&sum)
	return sum, err
}
