package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/config"
	"github.com/vacameet/vaca-meet-api/internal/http/handlers"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/media"
	"github.com/vacameet/vaca-meet-api/internal/middleware"
	"github.com/vacameet/vaca-meet-api/internal/service"
	"github.com/vacameet/vaca-meet-api/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires services, middleware and routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, pictures media.Store, log logging.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, store, pictures, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// Handler builds the full middleware chain and route table.
func Handler(cfg config.Config, store storage.Store, pictures media.Store, log logging.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	authSvc := service.NewAuthService(store, hasher, tokens, log.With("component", "auth"))
	profileSvc := service.NewProfileService(store, hasher, pictures, service.PictureOptions{
		PublicPrefix: cfg.Media.PublicPrefix,
		MaxBytes:     cfg.Media.MaxBytes,
	}, log.With("component", "profile"))
	campingSvc := service.NewCampingService(store, hasher, cfg.Locale, log.With("component", "camping"))

	opts := handlers.Options{Log: log, Debug: cfg.Debug}
	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), store).Register(mux)
	handlers.NewAuthHandler(authSvc, opts).Register(mux)
	handlers.NewProfileHandler(profileSvc, cfg.Media.MaxBytes, opts).Register(mux, middleware.RequireAuth)
	handlers.NewCampingHandler(campingSvc, opts).Register(mux, middleware.RequireAuth)

	if cfg.Media.Backend == config.MediaLocal {
		prefix := "/" + strings.Trim(cfg.Media.PublicPrefix, "/")
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Media.UploadDir)))
		mux.Handle("GET "+prefix+"/", noListing(files))
	}

	var handler http.Handler = mux
	handler = middleware.Authenticate(tokens, log, handler)
	handler = middleware.Recover(log, handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)
	return middleware.Logging(log, handler)
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
