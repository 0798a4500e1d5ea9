package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"auth", Unauthorized("nope"), http.StatusUnauthorized},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"internal", Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("raw"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("login: %w", Unauthorized("invalid credentials")), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "invalid credentials", Message(fmt.Errorf("x: %w", Unauthorized("invalid credentials")), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to fetch user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to fetch user: connection reset", err.Error())
	assert.Equal(t, "internal", KindOf(err).String())
}
