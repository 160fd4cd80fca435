package services

import (
	"context"

	"cypress/internal/domain/models"
)

// PlanInfo summarizes what the user's billing state entitles them to.
// FolderLimit is 0 when unlimited.
type PlanInfo struct {
	Plan        string                    `json:"plan"` // "free" or "pro"
	Status      models.SubscriptionStatus `json:"status,omitempty"`
	FolderLimit int                       `json:"folder_limit"`
}

// AccountService covers billing and collaborator lookups for the current user.
type AccountService interface {
	// Plan resolves the user's current plan from their subscription row.
	Plan(ctx context.Context, userID string) (*PlanInfo, error)

	// CheckFolderQuota returns ErrForbidden when creating another folder
	// would exceed the user's plan limit.
	CheckFolderQuota(ctx context.Context, userID string, folderCount int) error

	// SearchCollaborators finds candidate collaborators by email prefix,
	// excluding the requesting user from the results.
	SearchCollaborators(ctx context.Context, userID, emailPrefix string) ([]models.User, error)
}
