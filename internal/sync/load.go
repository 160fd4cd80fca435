package sync

import (
	"context"
	"fmt"

	"cypress/internal/domain/models"
	"cypress/internal/state"
)

// LoadWorkspace hydrates one workspace subtree from the gateway into the
// store. Folders land before their files so the tree is never half-wired.
func (s *Syncer) LoadWorkspace(ctx context.Context, workspaceID string) error {
	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}

	folders, err := s.folders.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("load folders: %w", err)
	}

	nodes := make([]state.AppFolder, 0, len(folders))
	for _, folder := range folders {
		nodes = append(nodes, state.NewFolder(folder))
	}

	s.store.Dispatch(state.AddWorkspace{Workspace: state.NewWorkspace(*workspace)})
	s.store.Dispatch(state.SetFolders{WorkspaceID: workspaceID, Folders: nodes})

	for _, folder := range folders {
		files, err := s.files.ListByFolder(ctx, folder.ID)
		if err != nil {
			return fmt.Errorf("load files for folder %s: %w", folder.ID, err)
		}
		s.store.Dispatch(state.SetFiles{WorkspaceID: workspaceID, FolderID: folder.ID, Files: files})
	}

	return nil
}

// LoadUserWorkspaces seeds the store with every workspace the user can see.
// Called once per session, before any optimistic edits.
func (s *Syncer) LoadUserWorkspaces(ctx context.Context, userID string) error {
	private, err := s.workspaces.ListPrivate(ctx, userID)
	if err != nil {
		return fmt.Errorf("load private workspaces: %w", err)
	}
	shared, err := s.workspaces.ListShared(ctx, userID)
	if err != nil {
		return fmt.Errorf("load shared workspaces: %w", err)
	}
	collaborating, err := s.workspaces.ListCollaborating(ctx, userID)
	if err != nil {
		return fmt.Errorf("load collaborating workspaces: %w", err)
	}

	all := make([]models.Workspace, 0, len(private)+len(shared)+len(collaborating))
	all = append(all, private...)
	all = append(all, shared...)
	all = append(all, collaborating...)

	idx := state.NewIndex(s.store.Snapshot())
	for _, workspace := range all {
		if idx.Workspace(workspace.ID) != nil {
			continue
		}
		if err := s.LoadWorkspace(ctx, workspace.ID); err != nil {
			return err
		}
	}
	return nil
}
