package httputil

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey         contextKey = "userID"
	verifiedDomainKey contextKey = "verifiedDomain"
)

// WithUserID attaches the authenticated (or domain-verified) user id to the
// request context.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves the user id, or "" when the request is anonymous.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithVerifiedDomain attaches the widget origin that passed the allow-list
// check.
func WithVerifiedDomain(r *http.Request, domain string) *http.Request {
	ctx := context.WithValue(r.Context(), verifiedDomainKey, domain)
	return r.WithContext(ctx)
}

// GetVerifiedDomain retrieves the verified widget origin, or "".
func GetVerifiedDomain(r *http.Request) string {
	domain, _ := r.Context().Value(verifiedDomainKey).(string)
	return domain
}
