package handler

import (
	"log/slog"
	"net/http"

	"cypress/internal/domain/services"
	"cypress/internal/httputil"
)

// AccountHandler handles billing-state HTTP requests
type AccountHandler struct {
	accountService services.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService services.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// GetPlan returns the caller's plan and limits.
// GET /api/account/plan
func (h *AccountHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	plan, err := h.accountService.Plan(r.Context(), userID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, plan)
}
