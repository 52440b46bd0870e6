package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"staffdesk/internal/config"
	"staffdesk/internal/httputil"
)

// SessionIDHeader selects the conversation in keyed session mode
const SessionIDHeader = "X-Session-ID"

// maxSessionIDLength bounds caller-chosen session ids
const maxSessionIDLength = 128

// Session resolves the conversation session for the request. In keyed mode a
// missing or oversized X-Session-ID is replaced by a fresh uuid, echoed back in
// the response header. In single mode the header is ignored.
func Session(mode string) func(http.Handler) http.Handler {
	keyed := mode == config.SessionModeKeyed
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !keyed {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := r.Header.Get(SessionIDHeader)
			if sessionID == "" || len(sessionID) > maxSessionIDLength {
				sessionID = uuid.NewString()
			}
			w.Header().Set(SessionIDHeader, sessionID)
			next.ServeHTTP(w, httputil.WithSessionID(r, sessionID))
		})
	}
}
