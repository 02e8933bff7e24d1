package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"matterdesk/internal/domain"
	"matterdesk/internal/httputil"
)

// handleError translates a domain error into its {code, message} response.
// Errors that are not domain-typed indicate a propagation bug somewhere
// below: log them loudly rather than silently swallowing, then answer 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), string(httpErr.ErrorCode()), httpErr.Error())
		return
	}

	logger.Error("unexpected error type reached route layer", "error", err)
	httputil.RespondError(w, http.StatusInternalServerError, string(domain.CodeDatabase), "internal server error")
}

// requireUserID resolves the request owner, responding 401 when absent.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := httputil.GetUserID(r.Context())
	if uid == "" {
		httputil.RespondError(w, http.StatusUnauthorized, string(domain.CodeUnauthenticated), "missing user identity")
		return "", false
	}
	return uid, true
}
