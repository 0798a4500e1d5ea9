package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type profileFixture struct {
	store    *memStore
	pictures *recordingMedia
	svc      *ProfileService
	id       auth.Identity
}

func newProfileFixture(t *testing.T) profileFixture {
	t.Helper()
	store := newMemStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("old")
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), models.User{
		Username:     "ann",
		PasswordHash: hash,
		FirstName:    strPtr("Ann"),
		LastName:     strPtr("Smith"),
		Role:         models.RoleUser,
		Theme:        models.ThemeDefault,
	})
	require.NoError(t, err)

	pictures := &recordingMedia{}
	svc := NewProfileService(store, hasher, pictures, PictureOptions{PublicPrefix: "/uploads/profiles", MaxBytes: 1024}, logging.Discard())
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return profileFixture{
		store:    store,
		pictures: pictures,
		svc:      svc,
		id:       auth.Identity{UserID: user.ID, Username: user.Username},
	}
}

func TestProfileService_RequiresIdentity(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.svc.GetProfile(context.Background(), auth.Identity{})
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	_, err = f.svc.GetProfile(context.Background(), auth.Identity{UserID: 999, Username: "ghost"})
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestProfileService_UpdateProfilePatch(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	res, err := f.svc.UpdateProfile(ctx, f.id, ProfilePatch{LastName: strPtr("Jones")})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Ann", *res.User.FirstName)
	assert.Equal(t, "Jones", *res.User.LastName)

	res, err = f.svc.UpdateProfile(ctx, f.id, ProfilePatch{Username: strPtr("x")})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "ann", res.User.Username)

	stored, err := f.store.FindByID(ctx, f.id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ann", stored.Username)
	assert.Equal(t, "Jones", *stored.LastName)
}

func TestProfileService_UpdateTheme(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	user, err := f.svc.UpdateTheme(ctx, f.id, "blue")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeBlue, user.Theme)

	_, err = f.svc.UpdateTheme(ctx, f.id, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.UpdateTheme(ctx, f.id, "purple")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "minimal")

	profile, err := f.svc.GetProfile(ctx, f.id)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeBlue, profile.Theme)
}

func TestProfileService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	err := f.svc.UpdatePassword(ctx, f.id, "", "new")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = f.svc.UpdatePassword(ctx, f.id, "wrong", "new")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	require.NoError(t, f.svc.UpdatePassword(ctx, f.id, "old", "new"))
	stored, err := f.store.FindByID(ctx, f.id.UserID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new")))
}

func TestProfileService_UploadProfilePicture(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	path, err := f.svc.UploadProfilePicture(ctx, f.id, "me.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	name := "user_1_1700000000.png"
	assert.Equal(t, "/uploads/profiles/"+name, path)
	assert.Equal(t, pngHeader, f.pictures.saved[name])

	profile, err := f.svc.GetProfile(ctx, f.id)
	require.NoError(t, err)
	require.NotNil(t, profile.ProfilePicture)
	assert.Equal(t, path, *profile.ProfilePicture)
}

func TestProfileService_UploadRejections(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	_, err := f.svc.UploadProfilePicture(ctx, f.id, "notes.txt", strings.NewReader("just some text"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.UploadProfilePicture(ctx, f.id, "empty.png", bytes.NewReader(nil))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...)
	_, err = f.svc.UploadProfilePicture(ctx, f.id, "big.png", bytes.NewReader(big))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	f.pictures.err = errBoom
	_, err = f.svc.UploadProfilePicture(ctx, f.id, "me.png", bytes.NewReader(pngHeader))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, f.pictures.saved)
}
