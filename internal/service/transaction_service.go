package service

import (
	"context"
	"errors"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 200
)

// TransactionService provides business logic for transaction management.
// Creating or deleting an account-linked income or expense keeps the
// account balance in sync.
type TransactionService interface {
	ListByUser(ctx context.Context, userID string, filter model.TransactionFilter, limit, offset int) ([]*model.Transaction, error)
	Create(ctx context.Context, userID string, t *model.Transaction) (*model.Transaction, error)
	Patch(ctx context.Context, id, userID string, patch model.TransactionPatch) error
	Delete(ctx context.Context, id, userID string) error
}

type transactionService struct {
	repo     repository.TransactionRepository
	accounts repository.AccountRepository
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(repo repository.TransactionRepository, accounts repository.AccountRepository) TransactionService {
	return &transactionService{repo: repo, accounts: accounts}
}

// balanceDelta returns the signed effect a transaction has on its linked
// account. Card purchases hit the card statement, not an account; transfers
// are recorded but move no money by themselves.
func balanceDelta(txType string, amount float64) float64 {
	switch txType {
	case model.TxIncome:
		return amount
	case model.TxExpense:
		return -amount
	}
	return 0
}

func (s *transactionService) ListByUser(ctx context.Context, userID string, filter model.TransactionFilter, limit, offset int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, filter, limit, offset)
}

func (s *transactionService) Create(ctx context.Context, userID string, t *model.Transaction) (*model.Transaction, error) {
	if !model.ValidTransactionType(t.Type) {
		return nil, errors.New("invalid transaction type")
	}
	if t.Amount <= 0 {
		return nil, errors.New("amount must be greater than 0")
	}
	if t.Type == model.TxCard && t.CardID == nil {
		return nil, errors.New("card transactions require card_id")
	}

	t.UserID = userID
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	if t.AccountID != nil {
		if delta := balanceDelta(t.Type, t.Amount); delta != 0 {
			if err := s.accounts.AdjustBalance(ctx, *t.AccountID, delta); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func (s *transactionService) Patch(ctx context.Context, id, userID string, patch model.TransactionPatch) error {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if old.UserID != userID {
		return ErrForbidden
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}

	if err := s.repo.Patch(ctx, id, patch); err != nil {
		return err
	}

	// An amount change on an account-linked income or expense shifts the
	// balance by the difference.
	if patch.Amount != nil && old.AccountID != nil {
		delta := balanceDelta(old.Type, *patch.Amount) - balanceDelta(old.Type, old.Amount)
		if delta != 0 {
			return s.accounts.AdjustBalance(ctx, *old.AccountID, delta)
		}
	}
	return nil
}

func (s *transactionService) Delete(ctx context.Context, id, userID string) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != userID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if t.AccountID != nil {
		if delta := balanceDelta(t.Type, t.Amount); delta != 0 {
			return s.accounts.AdjustBalance(ctx, *t.AccountID, -delta)
		}
	}
	return nil
}
