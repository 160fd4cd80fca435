package handler

import (
	"log/slog"
	"net/http"

	"cypress/internal/domain/models"
	"cypress/internal/domain/services"
	"cypress/internal/httputil"
	"cypress/internal/state"
	"cypress/internal/storage"
	"cypress/internal/sync"
)

// WorkspaceHandler handles workspace HTTP requests
type WorkspaceHandler struct {
	sessions         *sync.Sessions
	workspaceService services.WorkspaceService
	resolver         storage.PublicURLResolver
	logger           *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	sessions *sync.Sessions,
	workspaceService services.WorkspaceService,
	resolver storage.PublicURLResolver,
	logger *slog.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		sessions:         sessions,
		workspaceService: workspaceService,
		resolver:         resolver,
		logger:           logger,
	}
}

// workspaceResponse decorates a workspace with resolved asset URLs.
type workspaceResponse struct {
	models.Workspace
	LogoURL   string `json:"logo_url,omitempty"`
	BannerURL string `json:"banner_public_url,omitempty"`
}

func (h *WorkspaceHandler) respond(workspace models.Workspace) workspaceResponse {
	resp := workspaceResponse{Workspace: workspace}
	if workspace.Logo != nil {
		resp.LogoURL = h.resolver.PublicURL(*workspace.Logo)
	}
	if workspace.BannerURL != nil {
		resp.BannerURL = h.resolver.PublicURL(*workspace.BannerURL)
	}
	return resp
}

// ListWorkspaces returns the caller's dashboard listing.
// GET /api/workspaces
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	listing, err := h.workspaceService.ListForUser(r.Context(), userID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

type createWorkspaceRequest struct {
	Title  string  `json:"title"`
	IconID string  `json:"icon_id"`
	Logo   *string `json:"logo,omitempty"`
}

// CreateWorkspace creates a workspace owned by the caller.
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workspace, err := h.sessions.For(userID).CreateWorkspace(r.Context(), sync.CreateWorkspaceRequest{
		OwnerID: userID,
		Title:   req.Title,
		IconID:  req.IconID,
		Logo:    req.Logo,
	})
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, h.respond(*workspace))
}

// GetWorkspace returns one workspace the caller can access.
// GET /api/workspaces/{id}
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspace, err := h.workspaceService.Authorize(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	// Prefer the in-memory node: it carries edits not yet persisted.
	if node := state.NewIndex(h.sessions.For(userID).Store().Snapshot()).Workspace(workspace.ID); node != nil {
		httputil.RespondJSON(w, http.StatusOK, h.respond(node.Workspace))
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.respond(*workspace))
}

type updateWorkspaceRequest struct {
	Title     *string                 `json:"title,omitempty"`
	IconID    *string                 `json:"icon_id,omitempty"`
	Logo      httputil.OptionalString `json:"logo"`
	BannerURL httputil.OptionalString `json:"banner_url"`
}

// UpdateWorkspace applies a partial edit. Title changes debounce before
// persisting; everything else persists immediately.
// PATCH /api/workspaces/{id}
func (h *WorkspaceHandler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	var req updateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	syncer := h.sessions.For(userID)
	if req.Title != nil {
		syncer.RenameWorkspace(r.Context(), workspaceID, *req.Title)
	}
	if req.IconID != nil {
		syncer.SetWorkspaceIcon(r.Context(), workspaceID, *req.IconID)
	}
	if req.Logo.Present && req.Logo.Value != nil {
		syncer.SetWorkspaceLogo(r.Context(), workspaceID, *req.Logo.Value)
	}
	if req.BannerURL.Present {
		if req.BannerURL.Value == nil {
			syncer.RemoveWorkspaceBanner(r.Context(), workspaceID)
		} else {
			syncer.SetWorkspaceBanner(r.Context(), workspaceID, *req.BannerURL.Value)
		}
	}

	if node := state.NewIndex(syncer.Store().Snapshot()).Workspace(workspaceID); node != nil {
		httputil.RespondJSON(w, http.StatusOK, h.respond(node.Workspace))
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// DeleteWorkspace removes a workspace and everything under it. Owner only.
// DELETE /api/workspaces/{id}
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
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
		httputil.RespondError(w, http.StatusForbidden, "only the owner can delete a workspace")
		return
	}

	h.sessions.For(userID).DeleteWorkspace(r.Context(), workspaceID)
	w.WriteHeader(http.StatusNoContent)
}
