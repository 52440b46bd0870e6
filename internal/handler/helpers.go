package handler

import (
	"errors"
	"net/http"
	"strconv"

	"staffdesk/internal/httputil"
)

// PathParam returns a required path value, writing a 400 when it is missing
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

// PathID returns a positive integer path value, writing a 400 when it is invalid
func PathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	value, ok := PathParam(w, r, name, label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		httputil.RespondError(w, http.StatusBadRequest, label+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// respondParseError writes 413 for oversized bodies and 400 otherwise
func respondParseError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
}
