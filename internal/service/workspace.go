package service

import (
	"context"
	"fmt"
	"log/slog"

	"cypress/internal/domain"
	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
	"cypress/internal/domain/services"
)

// workspaceService implements the WorkspaceService interface
type workspaceService struct {
	workspaceRepo    repositories.WorkspaceRepository
	collaboratorRepo repositories.CollaboratorRepository
	logger           *slog.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo repositories.WorkspaceRepository,
	collaboratorRepo repositories.CollaboratorRepository,
	logger *slog.Logger,
) services.WorkspaceService {
	return &workspaceService{
		workspaceRepo:    workspaceRepo,
		collaboratorRepo: collaboratorRepo,
		logger:           logger,
	}
}

// ListForUser returns the dashboard listing for a user. The three buckets are
// disjoint: a workspace appears in exactly one of them.
func (s *workspaceService) ListForUser(ctx context.Context, userID string) (*services.WorkspaceListing, error) {
	private, err := s.workspaceRepo.ListPrivate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list private workspaces: %w", err)
	}

	shared, err := s.workspaceRepo.ListShared(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared workspaces: %w", err)
	}

	collaborating, err := s.workspaceRepo.ListCollaborating(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list collaborating workspaces: %w", err)
	}

	return &services.WorkspaceListing{
		Private:       private,
		Shared:        shared,
		Collaborating: collaborating,
	}, nil
}

// Authorize loads the workspace and verifies the user is its owner or a
// collaborator.
func (s *workspaceService) Authorize(ctx context.Context, userID, workspaceID string) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if workspace.WorkspaceOwner == userID {
		return workspace, nil
	}

	member, err := s.collaboratorRepo.Exists(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("check collaborator: %w", err)
	}
	if !member {
		s.logger.Warn("workspace access denied", "workspace_id", workspaceID, "user_id", userID)
		return nil, fmt.Errorf("workspace %s: %w", workspaceID, domain.ErrForbidden)
	}

	return workspace, nil
}

// ListCollaborators returns the users sharing the workspace.
func (s *workspaceService) ListCollaborators(ctx context.Context, workspaceID string) ([]models.User, error) {
	return s.collaboratorRepo.ListUsers(ctx, workspaceID)
}
