package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vacameet/vaca-meet-api/internal/config"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/media"
	"github.com/vacameet/vaca-meet-api/internal/server"
	"github.com/vacameet/vaca-meet-api/internal/storage/backend"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	pictures, err := openMedia(ctx, cfg.Media)
	if err != nil {
		log.Fatalf("init media store: %v", err)
	}

	srv := server.New(cfg, store, pictures, logger)

	go func() {
		logger.Info(ctx, "vaca-meet api listening", "addr", cfg.HTTPAddress(), "media", cfg.Media.Backend)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error(ctx, "graceful shutdown error", "error", err)
	}
}

func openMedia(ctx context.Context, cfg config.MediaConfig) (media.Store, error) {
	if cfg.Backend == config.MediaS3 {
		return media.NewS3Store(ctx, media.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    strings.Trim(cfg.PublicPrefix, "/"),
		})
	}
	return media.NewLocalStore(cfg.UploadDir)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
