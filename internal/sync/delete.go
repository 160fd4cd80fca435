package sync

import (
	"context"

	"cypress/internal/state"
)

// Hard deletes remove the node from the tree and issue the gateway delete.
// The node captured before dispatch is re-inserted if the gateway reports a
// confirmed failure, and the failure is surfaced like any other operation.

// DeleteWorkspace removes a workspace and everything under it. The remote
// cascade (files, folders, collaborator rows, the workspace) runs in one
// transaction.
func (s *Syncer) DeleteWorkspace(ctx context.Context, workspaceID string) {
	captured := state.NewIndex(s.store.Snapshot()).Workspace(workspaceID)

	s.store.Dispatch(state.DeleteWorkspace{WorkspaceID: workspaceID})

	pctx := context.WithoutCancel(ctx)
	s.persist("delete workspace",
		func() error {
			return s.txManager.ExecTx(pctx, func(txCtx context.Context) error {
				if err := s.files.DeleteByWorkspace(txCtx, workspaceID); err != nil {
					return err
				}
				if err := s.folders.DeleteByWorkspace(txCtx, workspaceID); err != nil {
					return err
				}
				if err := s.collaborators.DeleteByWorkspace(txCtx, workspaceID); err != nil {
					return err
				}
				return s.workspaces.Delete(txCtx, workspaceID)
			})
		},
		func() {
			if captured != nil {
				s.store.Dispatch(state.AddWorkspace{Workspace: *captured})
			}
		},
		"Could not delete the workspace",
	)
}

// DeleteFolder removes a folder and its files from the tree, then deletes
// the row. Stored file rows are removed by the database cascade.
func (s *Syncer) DeleteFolder(ctx context.Context, workspaceID, folderID string) {
	captured := state.NewIndex(s.store.Snapshot()).Folder(folderID)

	s.store.Dispatch(state.DeleteFolder{WorkspaceID: workspaceID, FolderID: folderID})

	pctx := context.WithoutCancel(ctx)
	s.persist("delete folder",
		func() error { return s.folders.Delete(pctx, folderID) },
		func() {
			if captured != nil {
				s.store.Dispatch(state.AddFolder{WorkspaceID: workspaceID, Folder: *captured})
			}
		},
		"Could not delete the folder",
	)
}

// DeleteFile removes a file from the tree, then deletes the row.
func (s *Syncer) DeleteFile(ctx context.Context, workspaceID, folderID, fileID string) {
	captured := state.NewIndex(s.store.Snapshot()).File(fileID)

	s.store.Dispatch(state.DeleteFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID})

	pctx := context.WithoutCancel(ctx)
	s.persist("delete file",
		func() error { return s.files.Delete(pctx, fileID) },
		func() {
			if captured != nil {
				s.store.Dispatch(state.AddFile{WorkspaceID: workspaceID, FolderID: folderID, File: *captured})
			}
		},
		"Could not delete the file",
	)
}
