package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
	"github.com/vacameet/vaca-meet-api/internal/http/respond"
	"github.com/vacameet/vaca-meet-api/internal/logging"
)

const maxJSONBody = 1 << 20

// Middleware wraps a route that requires an authenticated caller.
type Middleware func(http.Handler) http.Handler

// Options are shared by every handler.
type Options struct {
	Log logging.Logger
	// Debug exposes internal error causes in response bodies.
	Debug bool
}

func (o Options) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := apperr.Status(err)
	message := apperr.Message(err, fallback)
	if status >= http.StatusInternalServerError {
		o.Log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		o.Log.Info(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "reason", message)
	}

	if o.Debug {
		if cause := errors.Unwrap(err); cause != nil {
			respond.ErrorWithCause(w, status, message, cause.Error())
			return
		}
	}
	respond.Error(w, status, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid JSON payload")
	}
	return nil
}
