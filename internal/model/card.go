package model

import "time"

// Card is a revolving credit card with a fixed monthly statement cycle.
// ClosingDay is the statement cutoff, DueDay the payment deadline; both are
// days of the month in 1..31.
type Card struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Limit      float64   `json:"limit"`
	ClosingDay int       `json:"closing_day"`
	DueDay     int       `json:"due_day"`
	Emoji      string    `json:"emoji"`
	Color      string    `json:"color"`
	CreatedAt  time.Time `json:"created_at"`
}

// CardPatch holds fields that can be updated on a card.
type CardPatch struct {
	Name       *string
	Limit      *float64
	ClosingDay *int
	DueDay     *int
	Emoji      *string
	Color      *string
}

// CardBilling is a card decorated with its computed statement-cycle state.
type CardBilling struct {
	*Card
	NextDueDate  time.Time `json:"next_due_date"`
	DaysUntilDue int       `json:"days_until_due"`
	DueLabel     string    `json:"due_label"`
	CurrentUsage float64   `json:"current_usage"`
	UsagePercent float64   `json:"usage_percent"`
}
