package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

// DashboardStats is the summary block shown at the top of the dashboard.
// The monthly figures cover the calendar month containing the reference
// instant.
type DashboardStats struct {
	TotalBalance    float64 `json:"total_balance"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	MonthlyBalance  float64 `json:"monthly_balance"`
}

// StatsService aggregates account and transaction figures for the dashboard.
type StatsService interface {
	Dashboard(ctx context.Context, userID string, now time.Time) (*DashboardStats, error)
}

type statsService struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
}

// NewStatsService creates a StatsService.
func NewStatsService(accounts repository.AccountRepository, transactions repository.TransactionRepository) StatsService {
	return &statsService{accounts: accounts, transactions: transactions}
}

// monthWindow returns the [from, to) bounds of the calendar month containing
// the reference instant.
func monthWindow(now time.Time) (time.Time, time.Time) {
	year, month, _ := now.Date()
	from := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}

// Dashboard sums balances and the month's flows. Sums run through decimal
// arithmetic so accumulated float rounding never surfaces in the totals.
func (s *statsService) Dashboard(ctx context.Context, userID string, now time.Time) (*DashboardStats, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(decimal.NewFromFloat(a.Balance))
	}

	from, to := monthWindow(now)
	incomeRaw, err := s.transactions.SumByType(ctx, userID, model.TxIncome, from, to)
	if err != nil {
		return nil, err
	}
	expensesRaw, err := s.transactions.SumByType(ctx, userID, model.TxExpense, from, to)
	if err != nil {
		return nil, err
	}

	income := decimal.NewFromFloat(incomeRaw)
	expenses := decimal.NewFromFloat(expensesRaw)

	return &DashboardStats{
		TotalBalance:    total.InexactFloat64(),
		MonthlyIncome:   income.InexactFloat64(),
		MonthlyExpenses: expenses.InexactFloat64(),
		MonthlyBalance:  income.Sub(expenses).InexactFloat64(),
	}, nil
}
