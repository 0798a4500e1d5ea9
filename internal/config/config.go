package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Media backends understood by MediaBackend.
const (
	MediaLocal = "local"
	MediaS3    = "s3"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string   `env:"PORT" envDefault:"8080"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	JWTSecret     string   `env:"JWT_SECRET"`
	JWTIssuer     string   `env:"JWT_ISSUER" envDefault:"vaca-meet-api"`
	JWTTTLMinutes int      `env:"JWT_TTL_MINUTES" envDefault:"60"`
	CORSOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string   `env:"LOG_FORMAT" envDefault:"text"`
	Debug         bool     `env:"APP_DEBUG" envDefault:"false"`
	Locale        string   `env:"LOCALE" envDefault:"fr"`
	BcryptCost    int      `env:"BCRYPT_COST" envDefault:"10"`

	Media MediaConfig

	// JWTTTL is derived from JWTTTLMinutes.
	JWTTTL time.Duration
}

// MediaConfig selects where uploaded profile pictures are written.
type MediaConfig struct {
	Backend      string `env:"MEDIA_BACKEND" envDefault:"local"`
	UploadDir    string `env:"UPLOAD_DIR" envDefault:"public/uploads/profiles"`
	PublicPrefix string `env:"UPLOAD_PUBLIC_PREFIX" envDefault:"/uploads/profiles"`
	MaxBytes     int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.CORSOrigins = normalizeOrigins(cfg.CORSOrigins)
	cfg.Media.Backend = strings.ToLower(strings.TrimSpace(cfg.Media.Backend))

	if cfg.JWTTTLMinutes > 0 {
		cfg.JWTTTL = time.Duration(cfg.JWTTTLMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.Media.Backend {
	case MediaLocal:
	case MediaS3:
		if strings.TrimSpace(cfg.Media.S3Bucket) == "" {
			return Config{}, errors.New("S3_BUCKET is required when MEDIA_BACKEND=s3")
		}
	default:
		return Config{}, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.Media.Backend)
	}
	if cfg.Media.MaxBytes <= 0 {
		cfg.Media.MaxBytes = 5 << 20
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func normalizeOrigins(input []string) []string {
	var out []string
	for _, part := range input {
		trimmed := strings.TrimRight(strings.TrimSpace(part), "/")
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
