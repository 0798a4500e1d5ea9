// Package respond writes JSON bodies for handlers and middleware.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the envelope of every failed request. Cause is only set when
// the server runs in debug mode.
type ErrorBody struct {
	Message string `json:"message"`
	Cause   string `json:"error,omitempty"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}

// Error writes an ErrorBody.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Message: message})
}

// ErrorWithCause writes an ErrorBody exposing cause.
func ErrorWithCause(w http.ResponseWriter, status int, message, cause string) {
	JSON(w, status, ErrorBody{Message: message, Cause: cause})
}
