package middleware

import (
	"net/http"
	"strings"

	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/http/respond"
	"github.com/vacameet/vaca-meet-api/internal/logging"
)

// TokenParser resolves a bearer token to an identity.
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// Authenticate attaches the identity of a valid bearer token to the request
// context. Requests without a valid token pass through anonymously.
func Authenticate(tokens TokenParser, log logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		id, err := tokens.Parse(raw)
		if err != nil {
			log.Info(r.Context(), "rejected bearer token", "request_id", RequestID(r.Context()), "error", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// RequireAuth answers 401 unless Authenticate resolved an identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFrom(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
