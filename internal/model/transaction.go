package model

import "time"

// Transaction types.
const (
	TxIncome   = "income"
	TxExpense  = "expense"
	TxTransfer = "transfer"
	TxCard     = "card"
)

// ValidTransactionType reports whether t is one of the supported types.
func ValidTransactionType(t string) bool {
	switch t {
	case TxIncome, TxExpense, TxTransfer, TxCard:
		return true
	}
	return false
}

// Transaction is a single money movement. Category, account and card
// references are optional: a card purchase has a card id but no account id.
type Transaction struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	Type                string     `json:"type"`
	Amount              float64    `json:"amount"`
	Description         string     `json:"description"`
	CategoryID          *string    `json:"category_id,omitempty"`
	AccountID           *string    `json:"account_id,omitempty"`
	CardID              *string    `json:"card_id,omitempty"`
	Date                time.Time  `json:"date"`
	IsRecurring         bool       `json:"is_recurring"`
	RecurringType       *string    `json:"recurring_type,omitempty"` // daily/weekly/monthly/yearly
	ParentTransactionID *string    `json:"parent_transaction_id,omitempty"`
	InvoiceGroupID      *string    `json:"invoice_group_id,omitempty"`
	IsPaid              bool       `json:"is_paid"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TransactionPatch holds fields that can be updated on a transaction.
type TransactionPatch struct {
	Amount      *float64
	Description *string
	CategoryID  *string
	Date        *time.Time
	IsPaid      *bool
}

// TransactionFilter narrows a transaction listing. Zero values mean "no
// constraint"; all predicates are equality or range checks.
type TransactionFilter struct {
	Type      string
	AccountID string
	CardID    string
	From      time.Time
	To        time.Time
}
