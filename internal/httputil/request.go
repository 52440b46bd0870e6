package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodySize bounds JSON request bodies
const MaxRequestBodySize = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// Unknown fields and trailing data are rejected; the body is capped at
// MaxRequestBodySize.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	// Requires w for a proper 413 response
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes: %w", maxErr.Limit, err)
		}
		if errors.Is(err, io.EOF) {
			return errors.New("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON: unexpected data after object")
	}

	return nil
}
