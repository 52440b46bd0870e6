package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
	requestIDKey contextKey = "requestID"
)

// WithSessionID adds the conversation session id to the request context
func WithSessionID(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	return r.WithContext(ctx)
}

// GetSessionID retrieves the session id from context, returns empty string if not found
func GetSessionID(r *http.Request) string {
	sessionID, _ := r.Context().Value(sessionIDKey).(string)
	return sessionID
}

// WithRequestID adds the request id to the request context
func WithRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, requestID)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request id from context, returns empty string if not found
func GetRequestID(r *http.Request) string {
	requestID, _ := r.Context().Value(requestIDKey).(string)
	return requestID
}
