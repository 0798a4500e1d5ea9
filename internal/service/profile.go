package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/media"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/storage"
)

// allowedPictureTypes maps accepted MIME types to the stored file extension.
var allowedPictureTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
// Username is accepted only so it can be dropped: usernames are immutable.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Username  *string
}

// UpdateResult reports the profile after an update and whether anything was written.
type UpdateResult struct {
	User    models.UserPublic
	Changed bool
}

// PictureOptions configures profile picture uploads.
type PictureOptions struct {
	// PublicPrefix is the URL path under which stored pictures are served.
	PublicPrefix string
	MaxBytes     int64
}

// ProfileService reads and patches the mutable profile of the caller.
type ProfileService struct {
	users    storage.UserStore
	hasher   *auth.PasswordHasher
	pictures media.Store
	opts     PictureOptions
	log      logging.Logger
	now      func() time.Time
}

// NewProfileService wires the service.
func NewProfileService(users storage.UserStore, hasher *auth.PasswordHasher, pictures media.Store, opts PictureOptions, log logging.Logger) *ProfileService {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 5 << 20
	}
	return &ProfileService{users: users, hasher: hasher, pictures: pictures, opts: opts, log: log, now: time.Now}
}

func (s *ProfileService) current(ctx context.Context, id auth.Identity) (models.User, error) {
	if id.IsZero() {
		s.log.Warn(ctx, "profile access without identity")
		return models.User{}, apperr.Unauthorized("user not found")
	}
	user, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn(ctx, "identity refers to a missing user", "user_id", id.UserID)
			return models.User{}, apperr.Unauthorized("user not found")
		}
		return models.User{}, apperr.Internal("failed to fetch user", err)
	}
	return user, nil
}

// GetProfile returns the caller's profile.
func (s *ProfileService) GetProfile(ctx context.Context, id auth.Identity) (models.UserPublic, error) {
	user, err := s.current(ctx, id)
	if err != nil {
		return models.UserPublic{}, err
	}
	return user.Public(), nil
}

// UpdateProfile applies the name fields of patch. When neither is present the
// current profile is returned unchanged.
func (s *ProfileService) UpdateProfile(ctx context.Context, id auth.Identity, patch ProfilePatch) (UpdateResult, error) {
	user, err := s.current(ctx, id)
	if err != nil {
		return UpdateResult{}, err
	}
	if patch.Username != nil {
		s.log.Info(ctx, "ignoring username in profile update", "user_id", user.ID, "requested", *patch.Username)
	}
	if patch.FirstName == nil && patch.LastName == nil {
		return UpdateResult{User: user.Public()}, nil
	}

	updated, err := s.users.UpdateNames(ctx, user.ID, patch.FirstName, patch.LastName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return UpdateResult{}, apperr.Unauthorized("user not found")
		}
		s.log.Error(ctx, "profile update failed", "user_id", user.ID, "error", err)
		return UpdateResult{}, apperr.Internal("failed to update profile", err)
	}
	s.log.Info(ctx, "profile updated", "user_id", user.ID)
	return UpdateResult{User: updated.Public(), Changed: true}, nil
}

// UpdateTheme stores one of the fixed themes.
func (s *ProfileService) UpdateTheme(ctx context.Context, id auth.Identity, raw string) (models.UserPublic, error) {
	user, err := s.current(ctx, id)
	if err != nil {
		return models.UserPublic{}, err
	}
	if raw == "" {
		return models.UserPublic{}, apperr.Validation("theme is required")
	}
	theme, err := models.ParseTheme(raw)
	if err != nil {
		s.log.Warn(ctx, "invalid theme", "user_id", user.ID, "theme", raw)
		return models.UserPublic{}, apperr.Validation("invalid theme, allowed values: default, blue, green, minimal")
	}

	updated, err := s.users.UpdateTheme(ctx, user.ID, theme)
	if err != nil {
		s.log.Error(ctx, "theme update failed", "user_id", user.ID, "error", err)
		return models.UserPublic{}, apperr.Internal("failed to update theme", err)
	}
	s.log.Info(ctx, "theme updated", "user_id", user.ID, "from", user.Theme, "to", theme)
	return updated.Public(), nil
}

// UpdatePassword replaces the caller's password after checking the current one.
func (s *ProfileService) UpdatePassword(ctx context.Context, id auth.Identity, current, next string) error {
	user, err := s.current(ctx, id)
	if err != nil {
		return err
	}
	if current == "" || next == "" {
		return apperr.Validation("current and new passwords are required")
	}
	if !s.hasher.Verify(user.PasswordHash, current) {
		s.log.Info(ctx, "password change rejected: wrong current password", "user_id", user.ID)
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.log.Error(ctx, "password update failed", "user_id", user.ID, "error", err)
		return apperr.Internal("failed to update password", err)
	}
	s.log.Info(ctx, "password updated", "user_id", user.ID)
	return nil
}

// UploadProfilePicture stores an image for the caller and returns its public path.
func (s *ProfileService) UploadProfilePicture(ctx context.Context, id auth.Identity, filename string, body io.Reader) (string, error) {
	user, err := s.current(ctx, id)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", apperr.Validation("no file received")
	}

	data, err := io.ReadAll(io.LimitReader(body, s.opts.MaxBytes+1))
	if err != nil {
		return "", apperr.Validation("failed to read uploaded file")
	}
	if len(data) == 0 {
		return "", apperr.Validation("no file received")
	}
	if int64(len(data)) > s.opts.MaxBytes {
		return "", apperr.Validation(fmt.Sprintf("file exceeds %d bytes", s.opts.MaxBytes))
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedPictureTypes[mtype.String()]
	if !ok {
		s.log.Warn(ctx, "unsupported picture type", "user_id", user.ID, "filename", filename, "mime", mtype.String())
		return "", apperr.Validation("unsupported file format")
	}

	name := fmt.Sprintf("user_%d_%d%s", user.ID, s.now().Unix(), ext)
	if err := s.pictures.Save(ctx, name, mtype.String(), bytes.NewReader(data)); err != nil {
		s.log.Error(ctx, "picture storage failed", "user_id", user.ID, "error", err)
		return "", apperr.Internal("failed to store picture", err)
	}

	publicPath := path.Join("/", s.opts.PublicPrefix, name)
	if err := s.users.UpdateProfilePicture(ctx, user.ID, publicPath); err != nil {
		s.log.Error(ctx, "picture path update failed", "user_id", user.ID, "error", err)
		return "", apperr.Internal("failed to update profile picture", err)
	}
	s.log.Info(ctx, "profile picture updated", "user_id", user.ID, "filename", filename, "path", publicPath)
	return publicPath, nil
}
