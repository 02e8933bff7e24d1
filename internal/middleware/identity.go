package middleware

import (
	"net/http"

	"matterdesk/internal/httputil"
)

// Identity attaches the request owner and forwarded credentials to the
// context. Real session handling happens upstream of this subsystem; here a
// trusted X-User-Id header identifies the owner, and the raw Authorization
// header is kept around so outbound provider calls can forward it.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid := r.Header.Get("X-User-Id"); uid != "" {
			r = httputil.WithUserID(r, uid)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			r = httputil.WithAuthorization(r, auth)
		}

		next.ServeHTTP(w, r)
	})
}
