package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AbokiLearn/segun/internal/log"
)

// StatusError carries an HTTP status and a safe, user-facing message along
// with the underlying cause.
type StatusError struct {
	code    int
	message string
	err     error
}

// NewStatusError creates a StatusError.
func NewStatusError(code int, message string, err error) *StatusError {
	return &StatusError{code: code, message: message, err: err}
}

// Code returns the HTTP status code.
func (e *StatusError) Code() int { return e.code }

// Message returns the user-facing message.
func (e *StatusError) Message() string { return e.message }

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

// Unwrap returns the underlying cause.
func (e *StatusError) Unwrap() error { return e.err }

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError logs err and writes its JSON representation. Anything that is
// not a StatusError becomes an opaque 500; causes never reach the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		code = statusErr.Code()
		message = statusErr.Message()
	}

	logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "status", code, "error", err)

	WriteJSON(w, code, map[string]string{"error": message})
}
