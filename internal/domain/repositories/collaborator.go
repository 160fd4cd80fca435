package repositories

import (
	"context"

	"cypress/internal/domain/models"
)

// CollaboratorRepository manages workspace membership rows.
// Add and Remove are idempotent: adding an existing member or removing an
// absent one is a no-op, enforced with an existence check before the write.
type CollaboratorRepository interface {
	Add(ctx context.Context, workspaceID, userID string) error
	Remove(ctx context.Context, workspaceID, userID string) error
	Exists(ctx context.Context, workspaceID, userID string) (bool, error)
	ListUsers(ctx context.Context, workspaceID string) ([]models.User, error)
	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}

// UserRepository reads auth profile rows. Writes belong to the auth
// collaborator, not this module.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	// SearchByEmailPrefix backs the add-collaborator picker.
	SearchByEmailPrefix(ctx context.Context, prefix string) ([]models.User, error)
}

// SubscriptionRepository looks up billing state. Webhook-driven writes
// belong to the payment collaborator.
type SubscriptionRepository interface {
	// GetByUser returns the user's subscription, nil when none exists.
	GetByUser(ctx context.Context, userID string) (*models.Subscription, error)
}
