package model

import "time"

// Subscription statuses carried on the user record.
const (
	StatusTrial     = "trial"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// TrialDurationDays is the free trial window granted on signup.
const TrialDurationDays = 7

type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	FullName              string     `json:"full_name"`
	PasswordHash          string     `json:"-"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionPlan      string     `json:"subscription_plan,omitempty"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date,omitempty"`
	MercadoPagoCustomerID string     `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TrialEndsAt returns when the signup trial window closes.
func (u *User) TrialEndsAt() time.Time {
	return u.CreatedAt.AddDate(0, 0, TrialDurationDays)
}

// HasAccess reports whether the user may use the dashboard at the given
// instant: an unexpired trial, or an active subscription whose paid period
// has not ended.
func (u *User) HasAccess(now time.Time) bool {
	switch u.SubscriptionStatus {
	case StatusTrial:
		return now.Before(u.TrialEndsAt())
	case StatusActive:
		return u.SubscriptionEndDate == nil || now.Before(*u.SubscriptionEndDate)
	default:
		return false
	}
}

// UserPatch holds the subscription fields the billing webhook may update.
type UserPatch struct {
	SubscriptionStatus  *string
	SubscriptionPlan    *string
	SubscriptionEndDate *time.Time
}
