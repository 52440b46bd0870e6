package handler

import (
	"net/http"

	"staffdesk/internal/httputil"
)

// Health reports that the server is up
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
