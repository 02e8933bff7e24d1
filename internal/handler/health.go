package handler

import (
	"net/http"

	"matterdesk/internal/httputil"
)

// HealthCheck answers liveness probes.
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
