package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey        contextKey = "userID"
	authorizationKey contextKey = "authorization"
)

// WithUserID adds the owner id to the request context.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves the owner id from context, returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// WithAuthorization stores the incoming Authorization header so outbound
// provider calls can forward the caller's credentials.
func WithAuthorization(r *http.Request, value string) *http.Request {
	ctx := context.WithValue(r.Context(), authorizationKey, value)
	return r.WithContext(ctx)
}

// Authorization retrieves the forwarded Authorization header, if any.
func Authorization(ctx context.Context) string {
	value, _ := ctx.Value(authorizationKey).(string)
	return value
}
