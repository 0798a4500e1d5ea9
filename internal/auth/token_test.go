package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vacameet/vaca-meet-api/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "vaca-meet-api", time.Hour)

	token, err := tm.Generate(models.User{ID: 42, Username: "a@b.com", Role: models.RoleUser})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Username: "a@b.com"}, id)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "vaca-meet-api", time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return issued }

	token, err := tm.Generate(models.User{ID: 1, Username: "u"})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSecretAndIssuer(t *testing.T) {
	issuer := NewTokenManager("other", "vaca-meet-api", time.Hour)
	token, err := issuer.Generate(models.User{ID: 1, Username: "u"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "vaca-meet-api", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("other", "someone-else", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", "i", time.Hour).Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", "i", time.Hour).Generate(models.User{ID: 1})
	assert.Error(t, err)
}
