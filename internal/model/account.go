package model

import "time"

// Account types.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
	AccountCash       = "cash"
)

// ValidAccountType reports whether t is one of the supported account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCash:
		return true
	}
	return false
}

// Account is a money holding owned by a user.
type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountPatch holds fields that can be updated on an account.
type AccountPatch struct {
	Name    *string
	Type    *string
	Balance *float64
	Emoji   *string
	Color   *string
}
