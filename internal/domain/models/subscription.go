package models

import (
	"time"
)

// SubscriptionStatus follows the payment provider's lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionUnpaid   SubscriptionStatus = "unpaid"
)

// Subscription is the billing row for a user. Webhook handling lives with the
// payment collaborator; the core only performs status lookups.
type Subscription struct {
	ID               string             `json:"id" db:"id"`
	UserID           string             `json:"user_id" db:"user_id"`
	Status           SubscriptionStatus `json:"status" db:"status"`
	PriceID          *string            `json:"price_id,omitempty" db:"price_id"`
	Quantity         *int               `json:"quantity,omitempty" db:"quantity"`
	CancelAtPeriodEnd *bool             `json:"cancel_at_period_end,omitempty" db:"cancel_at_period_end"`
	CurrentPeriodEnd *time.Time         `json:"current_period_end,omitempty" db:"current_period_end"`
	Created          time.Time          `json:"created" db:"created"`
}

// IsActive reports whether the subscription entitles the user to paid features.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}
