package services

import (
	"context"

	"cypress/internal/domain/models"
)

// WorkspaceListing groups the workspaces shown on the dashboard sidebar by
// the caller's relationship to them.
type WorkspaceListing struct {
	Private       []models.Workspace `json:"private"`
	Shared        []models.Workspace `json:"shared"`
	Collaborating []models.Workspace `json:"collaborating"`
}

// WorkspaceService answers account-scoped workspace questions that live
// outside the in-memory tree: login-time listings and access checks.
type WorkspaceService interface {
	// ListForUser returns the caller's workspaces split into private (owned,
	// no collaborators), shared (owned, has collaborators) and collaborating
	// (owned by someone else).
	ListForUser(ctx context.Context, userID string) (*WorkspaceListing, error)

	// Authorize verifies the user may act on the workspace. Returns
	// ErrNotFound when the workspace does not exist and ErrForbidden when
	// the user is neither owner nor collaborator.
	Authorize(ctx context.Context, userID, workspaceID string) (*models.Workspace, error)

	// ListCollaborators returns the users sharing the workspace, in the
	// order they were added.
	ListCollaborators(ctx context.Context, workspaceID string) ([]models.User, error)
}
