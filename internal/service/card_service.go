package service

import (
	"context"
	"errors"
	"time"

	"github.com/financasgo/backend/internal/billing"
	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

// CardUsageReader is the slice of the transaction store the card list needs
// to compute statement usage.
type CardUsageReader interface {
	CardUsage(ctx context.Context, cardID string, since time.Time) (float64, error)
}

// CardService provides business logic for credit card management. Listing
// decorates each card with its computed statement-cycle state.
type CardService interface {
	ListByUser(ctx context.Context, userID string, now time.Time) ([]*model.CardBilling, error)
	Create(ctx context.Context, userID string, c *model.Card) (*model.Card, error)
	Patch(ctx context.Context, id, userID string, patch model.CardPatch) error
	Delete(ctx context.Context, id, userID string) error
}

type cardService struct {
	repo  repository.CardRepository
	usage CardUsageReader
}

// NewCardService creates a CardService. usage can be nil to skip usage totals.
func NewCardService(repo repository.CardRepository, usage CardUsageReader) CardService {
	return &cardService{repo: repo, usage: usage}
}

func validStatementDay(d int) bool {
	return d >= 1 && d <= 31
}

func (s *cardService) ListByUser(ctx context.Context, userID string, now time.Time) ([]*model.CardBilling, error) {
	cards, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*model.CardBilling, 0, len(cards))
	for _, c := range cards {
		days := billing.DaysUntilDue(c.ClosingDay, c.DueDay, now)
		b := &model.CardBilling{
			Card:         c,
			NextDueDate:  billing.NextDueDate(c.ClosingDay, c.DueDay, now),
			DaysUntilDue: days,
			DueLabel:     billing.DueLabel(days),
		}
		if s.usage != nil {
			used, err := s.usage.CardUsage(ctx, c.ID, billing.CycleStart(c.ClosingDay, now))
			if err != nil {
				return nil, err
			}
			b.CurrentUsage = used
			if c.Limit > 0 {
				b.UsagePercent = used / c.Limit * 100
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *cardService) Create(ctx context.Context, userID string, c *model.Card) (*model.Card, error) {
	if c.Name == "" {
		return nil, errors.New("name is required")
	}
	if !validStatementDay(c.ClosingDay) || !validStatementDay(c.DueDay) {
		return nil, errors.New("closing_day and due_day must be between 1 and 31")
	}
	if c.Limit < 0 {
		return nil, errors.New("limit must not be negative")
	}
	c.UserID = userID
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cardService) Patch(ctx context.Context, id, userID string, patch model.CardPatch) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	if patch.ClosingDay != nil && !validStatementDay(*patch.ClosingDay) {
		return errors.New("closing_day must be between 1 and 31")
	}
	if patch.DueDay != nil && !validStatementDay(*patch.DueDay) {
		return errors.New("due_day must be between 1 and 31")
	}
	return s.repo.Patch(ctx, id, patch)
}

func (s *cardService) Delete(ctx context.Context, id, userID string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
