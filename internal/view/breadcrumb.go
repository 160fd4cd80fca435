// Package view holds pure builders computing display projections from a
// tree snapshot. Nothing here mutates state or talks to the store gateway.
package view

import (
	"strings"

	"cypress/internal/state"
)

// Breadcrumbs renders the navigation trail for a focus path as
// "<icon> <title>" segments joined by spaces, e.g. "💼 Team 📁 Notes".
// It stops at the deepest segment that resolves and returns "" when the
// workspace itself is unresolved.
func Breadcrumbs(s state.AppState, focus state.Focus) string {
	if focus.WorkspaceID == "" {
		return ""
	}

	idx := state.NewIndex(s)
	workspace := idx.Workspace(focus.WorkspaceID)
	if workspace == nil {
		return ""
	}

	segments := []string{segment(workspace.IconID, workspace.Title)}

	if focus.FolderID != "" {
		folder := idx.Folder(focus.FolderID)
		if folder != nil {
			segments = append(segments, segment(folder.IconID, folder.Title))

			if focus.FileID != "" {
				if file := idx.File(focus.FileID); file != nil {
					segments = append(segments, segment(file.IconID, file.Title))
				}
			}
		}
	}

	return strings.Join(segments, " ")
}

func segment(icon, title string) string {
	if icon == "" {
		return title
	}
	return icon + " " + title
}
