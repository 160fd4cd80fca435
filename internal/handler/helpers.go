package handler

import (
	"net/http"

	"cypress/internal/httputil"
)

// requireUser extracts the authenticated user id, writing a 401 and
// returning false if the auth middleware did not run.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return "", false
	}
	return userID, true
}

// HealthCheck reports service liveness.
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
