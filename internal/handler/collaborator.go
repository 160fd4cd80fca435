package handler

import (
	"log/slog"
	"net/http"

	"cypress/internal/domain/services"
	"cypress/internal/httputil"
	"cypress/internal/sync"
)

// CollaboratorHandler handles workspace membership HTTP requests
type CollaboratorHandler struct {
	sessions         *sync.Sessions
	workspaceService services.WorkspaceService
	accountService   services.AccountService
	logger           *slog.Logger
}

// NewCollaboratorHandler creates a new collaborator handler
func NewCollaboratorHandler(
	sessions *sync.Sessions,
	workspaceService services.WorkspaceService,
	accountService services.AccountService,
	logger *slog.Logger,
) *CollaboratorHandler {
	return &CollaboratorHandler{
		sessions:         sessions,
		workspaceService: workspaceService,
		accountService:   accountService,
		logger:           logger,
	}
}

// ListCollaborators returns the users sharing a workspace.
// GET /api/workspaces/{id}/collaborators
func (h *CollaboratorHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	users, err := h.workspaceService.ListCollaborators(r.Context(), workspaceID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

type addCollaboratorRequest struct {
	UserID string `json:"user_id"`
}

// AddCollaborator shares the workspace with another user. Owner only.
// POST /api/workspaces/{id}/collaborators
func (h *CollaboratorHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	workspace, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}
	if workspace.WorkspaceOwner != userID {
		httputil.RespondError(w, http.StatusForbidden, "only the owner can manage collaborators")
		return
	}

	var req addCollaboratorRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessions.For(userID).AddCollaborator(r.Context(), workspaceID, req.UserID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveCollaborator revokes a user's access. Owner only.
// DELETE /api/workspaces/{id}/collaborators/{userID}
func (h *CollaboratorHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	workspace, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}
	if workspace.WorkspaceOwner != userID {
		httputil.RespondError(w, http.StatusForbidden, "only the owner can manage collaborators")
		return
	}

	if err := h.sessions.For(userID).RemoveCollaborator(r.Context(), workspaceID, r.PathValue("userID")); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchUsers finds collaborator candidates by email prefix.
// GET /api/users/search?email=<prefix>
func (h *CollaboratorHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	users, err := h.accountService.SearchCollaborators(r.Context(), userID, r.URL.Query().Get("email"))
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}
