package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/storage"
)

// TestStoreIntegration exercises the user queries against a live Postgres.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORE_INTEGRATION=true to run this integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := New(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	username := fmt.Sprintf("storetest_%d@example.com", time.Now().UnixNano())
	created, err := store.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: "hash",
		Role:         models.RoleUser,
		Theme:        models.ThemeDefault,
	})
	require.NoError(t, err)
	assert.Nil(t, created.FirstName)

	_, err = store.CreateUser(ctx, models.User{Username: username, PasswordHash: "h", Role: models.RoleUser, Theme: models.ThemeDefault})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	first := "Camille"
	updated, err := store.UpdateNames(ctx, created.ID, &first, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Camille", *updated.FirstName)
	assert.Nil(t, updated.LastName)

	themed, err := store.UpdateTheme(ctx, created.ID, models.ThemeGreen)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeGreen, themed.Theme)

	_, err = store.FindByID(ctx, -1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.ListDestinations(ctx)
	require.NoError(t, err)
}
