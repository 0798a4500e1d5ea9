package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/vacameet")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "vaca-meet-api", cfg.JWTIssuer)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "fr", cfg.Locale)
	assert.False(t, cfg.Debug)
	assert.Equal(t, MediaLocal, cfg.Media.Backend)
	assert.Equal(t, "/uploads/profiles", cfg.Media.PublicPrefix)
	assert.Equal(t, int64(5<<20), cfg.Media.MaxBytes)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:8100/, https://mobile.vaca-meet.fr")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("MEDIA_BACKEND", "S3")
	t.Setenv("S3_BUCKET", "profiles")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:8100", "https://mobile.vaca-meet.fr"}, cfg.CORSOrigins)
	assert.True(t, cfg.Debug)
	assert.Equal(t, MediaS3, cfg.Media.Backend)
}

func TestLoad_InvalidTTLFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_TTL_MINUTES", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing database", map[string]string{"DATABASE_URL": "", "JWT_SECRET": "s"}, "DATABASE_URL is required"},
		{"missing secret", map[string]string{"DATABASE_URL": "sqlite://x.db", "JWT_SECRET": " "}, "JWT_SECRET is required"},
		{"s3 without bucket", map[string]string{"DATABASE_URL": "sqlite://x.db", "JWT_SECRET": "s", "MEDIA_BACKEND": "s3"}, "S3_BUCKET is required"},
		{"unknown media", map[string]string{"DATABASE_URL": "sqlite://x.db", "JWT_SECRET": "s", "MEDIA_BACKEND": "ftp"}, "unknown MEDIA_BACKEND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
