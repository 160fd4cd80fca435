package handler

import (
	"log/slog"
	"net/http"

	"cypress/internal/domain/services"
	"cypress/internal/httputil"
	"cypress/internal/state"
	"cypress/internal/sync"
	"cypress/internal/view"
)

// TreeHandler serves reads against the caller's in-memory tree: the full
// snapshot, breadcrumbs for the focused path and per-workspace trash
// listings. Each user reads their own session store.
type TreeHandler struct {
	sessions         *sync.Sessions
	workspaceService services.WorkspaceService
	logger           *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(sessions *sync.Sessions, workspaceService services.WorkspaceService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		sessions:         sessions,
		workspaceService: workspaceService,
		logger:           logger,
	}
}

// GetTree returns the caller's current state snapshot.
// GET /api/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.sessions.For(userID).Store().Snapshot())
}

// LoadTree hydrates the caller's store with every workspace they can see
// and returns the resulting snapshot. Called once after login.
// POST /api/tree/load
func (h *TreeHandler) LoadTree(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	syncer := h.sessions.For(userID)
	if err := syncer.LoadUserWorkspaces(r.Context(), userID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, syncer.Store().Snapshot())
}

type focusResponse struct {
	Focus      state.Focus `json:"focus"`
	Breadcrumb string      `json:"breadcrumb"`
}

// SetFocus records the client's dashboard location and returns the
// breadcrumb for it.
// PUT /api/tree/focus?path=/dashboard/<ws>/<folder>/<file>
func (h *TreeHandler) SetFocus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	store := h.sessions.For(userID).Store()
	focus := store.SetFocusFromPath(r.URL.Query().Get("path"))
	httputil.RespondJSON(w, http.StatusOK, focusResponse{
		Focus:      focus,
		Breadcrumb: view.Breadcrumbs(store.Snapshot(), focus),
	})
}

// GetBreadcrumbs resolves a dashboard path to its breadcrumb string without
// moving the stored focus.
// GET /api/breadcrumbs?path=/dashboard/<ws>/<folder>/<file>
func (h *TreeHandler) GetBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	snapshot := h.sessions.For(userID).Store().Snapshot()
	focus := state.FocusFromPath(r.URL.Query().Get("path"))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"breadcrumb": view.Breadcrumbs(snapshot, focus),
	})
}

// GetTrash lists the trashed folders and files of a workspace.
// GET /api/workspaces/{id}/trash
func (h *TreeHandler) GetTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workspaceID := r.PathValue("id")
	if _, err := h.workspaceService.Authorize(r.Context(), userID, workspaceID); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view.TrashItems(h.sessions.For(userID).Store().Snapshot(), workspaceID))
}
