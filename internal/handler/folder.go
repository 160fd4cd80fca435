package handler

import (
	"log/slog"
	"net/http"

	"cypress/internal/domain/services"
	"cypress/internal/httputil"
	"cypress/internal/state"
	"cypress/internal/sync"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	sessions         *sync.Sessions
	workspaceService services.WorkspaceService
	accountService   services.AccountService
	logger           *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(
	sessions *sync.Sessions,
	workspaceService services.WorkspaceService,
	accountService services.AccountService,
	logger *slog.Logger,
) *FolderHandler {
	return &FolderHandler{
		sessions:         sessions,
		workspaceService: workspaceService,
		accountService:   accountService,
		logger:           logger,
	}
}

type createFolderRequest struct {
	Title  string `json:"title"`
	IconID string `json:"icon_id"`
}

// CreateFolder creates a folder, subject to the caller's plan quota.
// POST /api/workspaces/{id}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	var req createFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	syncer := h.sessions.For(userID)
	count := 0
	if node := state.NewIndex(syncer.Store().Snapshot()).Workspace(workspaceID); node != nil {
		count = len(node.Folders)
	}
	if err := h.accountService.CheckFolderQuota(r.Context(), userID, count); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	folder, err := syncer.CreateFolder(r.Context(), sync.CreateFolderRequest{
		WorkspaceID: workspaceID,
		Title:       req.Title,
		IconID:      req.IconID,
	})
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

type updateFolderRequest struct {
	Title     *string                 `json:"title,omitempty"`
	IconID    *string                 `json:"icon_id,omitempty"`
	BannerURL httputil.OptionalString `json:"banner_url"`
}

// UpdateFolder applies a partial edit to a folder.
// PATCH /api/workspaces/{id}/folders/{folderID}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	folderID := r.PathValue("folderID")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	var req updateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	syncer := h.sessions.For(userID)
	if req.Title != nil {
		syncer.RenameFolder(r.Context(), workspaceID, folderID, *req.Title)
	}
	if req.IconID != nil {
		syncer.SetFolderIcon(r.Context(), workspaceID, folderID, *req.IconID)
	}
	if req.BannerURL.Present {
		if req.BannerURL.Value == nil {
			syncer.RemoveFolderBanner(r.Context(), workspaceID, folderID)
		} else {
			syncer.SetFolderBanner(r.Context(), workspaceID, folderID, *req.BannerURL.Value)
		}
	}

	if node := state.NewIndex(syncer.Store().Snapshot()).Folder(folderID); node != nil {
		httputil.RespondJSON(w, http.StatusOK, node.Folder)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// TrashFolder soft-deletes a folder, recording who did it.
// POST /api/workspaces/{id}/folders/{folderID}/trash
func (h *FolderHandler) TrashFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	h.sessions.For(userID).TrashFolder(r.Context(), workspaceID, r.PathValue("folderID"), httputil.GetUserEmail(r))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "trashed"})
}

// RestoreFolder brings a folder back from the trash.
// POST /api/workspaces/{id}/folders/{folderID}/restore
func (h *FolderHandler) RestoreFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	h.sessions.For(userID).RestoreFolder(r.Context(), workspaceID, r.PathValue("folderID"))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// DeleteFolder permanently removes a folder and its files.
// DELETE /api/workspaces/{id}/folders/{folderID}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	h.sessions.For(userID).DeleteFolder(r.Context(), workspaceID, r.PathValue("folderID"))
	w.WriteHeader(http.StatusNoContent)
}
