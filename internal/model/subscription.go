package model

import "time"

// Gateway subscription statuses as reported by Mercado Pago preapprovals.
const (
	SubPending    = "pending"
	SubAuthorized = "authorized"
	SubPaused     = "paused"
	SubCancelled  = "cancelled"
)

// Subscription links a user to a Mercado Pago preapproval.
type Subscription struct {
	ID                        string    `json:"id"`
	UserID                    string    `json:"user_id"`
	MercadoPagoSubscriptionID string    `json:"-"`
	Plan                      string    `json:"plan"` // "monthly" or "yearly"
	Status                    string    `json:"status"`
	Amount                    float64   `json:"amount"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}
