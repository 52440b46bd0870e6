package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"staffdesk/internal/domain"
	"staffdesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrReadOnly):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httputil.RespondError(w, http.StatusServiceUnavailable, "request cancelled or timed out")
	default:
		requestID := httputil.GetRequestID(r)
		slog.Error("unhandled error",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestID,
		)
		httputil.RespondErrorWithExtras(w, http.StatusInternalServerError, "internal server error",
			map[string]interface{}{"request_id": requestID})
	}
}
