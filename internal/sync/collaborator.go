package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cypress/internal/domain"
)

// Collaborator membership changes are synchronous: nothing in the workspace
// tree mirrors them, so there is no optimistic dispatch to protect. The
// gateway enforces idempotency, adding a present member or removing an
// absent one is a no-op.

// AddCollaborator grants a user access to a workspace.
func (s *Syncer) AddCollaborator(ctx context.Context, workspaceID, userID string) error {
	if err := validateIDs(workspaceID, userID); err != nil {
		return err
	}
	if err := s.collaborators.Add(ctx, workspaceID, userID); err != nil {
		s.notifier.Error("Could not add the collaborator")
		return err
	}
	return nil
}

// RemoveCollaborator revokes a user's access to a workspace.
func (s *Syncer) RemoveCollaborator(ctx context.Context, workspaceID, userID string) error {
	if err := validateIDs(workspaceID, userID); err != nil {
		return err
	}
	if err := s.collaborators.Remove(ctx, workspaceID, userID); err != nil {
		s.notifier.Error("Could not remove the collaborator")
		return err
	}
	return nil
}

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
		}
	}
	return nil
}
