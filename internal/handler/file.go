package handler

import (
	"log/slog"
	"net/http"

	"cypress/internal/domain/services"
	"cypress/internal/httputil"
	"cypress/internal/state"
	"cypress/internal/sync"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	sessions         *sync.Sessions
	workspaceService services.WorkspaceService
	logger           *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(
	sessions *sync.Sessions,
	workspaceService services.WorkspaceService,
	logger *slog.Logger,
) *FileHandler {
	return &FileHandler{
		sessions:         sessions,
		workspaceService: workspaceService,
		logger:           logger,
	}
}

type createFileRequest struct {
	Title  string `json:"title"`
	IconID string `json:"icon_id"`
}

// CreateFile creates a file inside a folder.
// POST /api/workspaces/{id}/folders/{folderID}/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	var req createFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.sessions.For(userID).CreateFile(r.Context(), sync.CreateFileRequest{
		WorkspaceID: workspaceID,
		FolderID:    r.PathValue("folderID"),
		Title:       req.Title,
		IconID:      req.IconID,
	})
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

type updateFileRequest struct {
	Title     *string                 `json:"title,omitempty"`
	IconID    *string                 `json:"icon_id,omitempty"`
	Data      *string                 `json:"data,omitempty"`
	BannerURL httputil.OptionalString `json:"banner_url"`
}

// UpdateFile applies a partial edit to a file. Title and data changes
// debounce before persisting.
// PATCH /api/workspaces/{id}/folders/{folderID}/files/{fileID}
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	folderID := r.PathValue("folderID")
	fileID := r.PathValue("fileID")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	var req updateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	syncer := h.sessions.For(userID)
	if req.Title != nil {
		syncer.RenameFile(r.Context(), workspaceID, folderID, fileID, *req.Title)
	}
	if req.IconID != nil {
		syncer.SetFileIcon(r.Context(), workspaceID, folderID, fileID, *req.IconID)
	}
	if req.Data != nil {
		syncer.SaveFileData(r.Context(), workspaceID, folderID, fileID, *req.Data)
	}
	if req.BannerURL.Present {
		if req.BannerURL.Value == nil {
			syncer.RemoveFileBanner(r.Context(), workspaceID, folderID, fileID)
		} else {
			syncer.SetFileBanner(r.Context(), workspaceID, folderID, fileID, *req.BannerURL.Value)
		}
	}

	if node := state.NewIndex(syncer.Store().Snapshot()).File(fileID); node != nil {
		httputil.RespondJSON(w, http.StatusOK, node)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// TrashFile soft-deletes a file, recording who did it.
// POST /api/workspaces/{id}/folders/{folderID}/files/{fileID}/trash
func (h *FileHandler) TrashFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	h.sessions.For(userID).TrashFile(r.Context(), workspaceID, r.PathValue("folderID"), r.PathValue("fileID"), httputil.GetUserEmail(r))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "trashed"})
}

// RestoreFile brings a file back from the trash.
// POST /api/workspaces/{id}/folders/{folderID}/files/{fileID}/restore
func (h *FileHandler) RestoreFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	h.sessions.For(userID).RestoreFile(r.Context(), workspaceID, r.PathValue("folderID"), r.PathValue("fileID"))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// DeleteFile permanently removes a file.
// DELETE /api/workspaces/{id}/folders/{folderID}/files/{fileID}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	h.sessions.For(userID).DeleteFile(r.Context(), workspaceID, r.PathValue("folderID"), r.PathValue("fileID"))
	w.WriteHeader(http.StatusNoContent)
}
