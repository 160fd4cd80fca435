package models

import (
	"time"
)

// User mirrors the auth provider's profile row. Managed by the auth
// collaborator; the core only reads it for collaborator search and display.
type User struct {
	ID             string     `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	FullName       *string    `json:"full_name,omitempty" db:"full_name"`
	AvatarURL      *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	BillingAddress *string    `json:"billing_address,omitempty" db:"billing_address"`
	PaymentMethod  *string    `json:"payment_method,omitempty" db:"payment_method"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Collaborator joins a user to a workspace they were granted access to.
type Collaborator struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
