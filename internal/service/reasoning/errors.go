package reasoning

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// Failure kinds. Match with errors.Is.
var (
	ErrTransport         = errors.New("reasoning service unreachable")
	ErrStatus            = errors.New("reasoning service returned an error status")
	ErrMalformedResponse = errors.New("malformed reasoning service response")
)

// Error is a classified reasoning-service failure.
type Error struct {
	Kind error
	// StatusCode is the HTTP status for ErrStatus, zero otherwise
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func malformed(format string, args ...any) *Error {
	return &Error{Kind: ErrMalformedResponse, Err: fmt.Errorf(format, args...)}
}

// classify maps a go-openai client error to a failure kind.
func classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: ErrStatus, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Kind: ErrStatus, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}

	// A request that never got a response fails inside http.Client.Do
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Kind: ErrTransport, Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: ErrMalformedResponse, Err: err}
	}

	// Resets while reading, timeouts and cancellation
	return &Error{Kind: ErrTransport, Err: err}
}

// kindName is the log label of a failure kind.
func kindName(err error) string {
	switch {
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}
