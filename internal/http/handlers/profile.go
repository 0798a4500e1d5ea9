package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/http/respond"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/models/dto"
	"github.com/vacameet/vaca-meet-api/internal/service"
)

// multipartOverhead is allowed on top of the picture size for form framing.
const multipartOverhead = 64 << 10

// ProfileService is the profile surface used by ProfileHandler.
type ProfileService interface {
	GetProfile(ctx context.Context, id auth.Identity) (models.UserPublic, error)
	UpdateProfile(ctx context.Context, id auth.Identity, patch service.ProfilePatch) (service.UpdateResult, error)
	UpdateTheme(ctx context.Context, id auth.Identity, theme string) (models.UserPublic, error)
	UpdatePassword(ctx context.Context, id auth.Identity, current, next string) error
	UploadProfilePicture(ctx context.Context, id auth.Identity, filename string, body io.Reader) (string, error)
}

// ProfileHandler serves the authenticated /api/mobile/user endpoints.
type ProfileHandler struct {
	svc         ProfileService
	uploadLimit int64
	Options
}

// NewProfileHandler constructs the handler. uploadLimit bounds the picture size in bytes.
func NewProfileHandler(svc ProfileService, uploadLimit int64, opts Options) *ProfileHandler {
	return &ProfileHandler{svc: svc, uploadLimit: uploadLimit, Options: opts}
}

// Register attaches profile routes, each wrapped by requireAuth.
func (h *ProfileHandler) Register(mux *http.ServeMux, requireAuth Middleware) {
	mux.Handle("GET /api/mobile/user", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("POST /api/mobile/user/update", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("POST /api/mobile/user/update-theme", requireAuth(http.HandlerFunc(h.handleTheme)))
	mux.Handle("PUT /api/mobile/user/password", requireAuth(http.HandlerFunc(h.handlePassword)))
	mux.Handle("POST /api/mobile/user/password", requireAuth(http.HandlerFunc(h.handlePassword)))
	mux.Handle("POST /api/mobile/user/upload-profile-picture", requireAuth(http.HandlerFunc(h.handleUpload)))
}

func identity(r *http.Request) auth.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetProfile(r.Context(), identity(r))
	if err != nil {
		h.fail(w, r, err, "failed to fetch profile")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "invalid JSON payload")
		return
	}
	res, err := h.svc.UpdateProfile(r.Context(), identity(r), service.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	})
	if err != nil {
		h.fail(w, r, err, "failed to update profile")
		return
	}
	message := "Profile updated successfully"
	if !res.Changed {
		message = "No changes"
	}
	respond.JSON(w, http.StatusOK, dto.ProfileResponse{Success: true, Message: message, User: res.User})
}

func (h *ProfileHandler) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateThemeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "invalid JSON payload")
		return
	}
	user, err := h.svc.UpdateTheme(r.Context(), identity(r), req.Theme)
	if err != nil {
		h.fail(w, r, err, "failed to update theme")
		return
	}
	respond.JSON(w, http.StatusOK, dto.ProfileResponse{Success: true, Message: "Theme updated successfully", User: user})
}

func (h *ProfileHandler) handlePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "invalid JSON payload")
		return
	}
	if err := h.svc.UpdatePassword(r.Context(), identity(r), req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, r, err, "failed to update password")
		return
	}
	respond.JSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "Password updated successfully"})
}

func (h *ProfileHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadLimit+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, apperr.Validation("file is too large"), "")
			return
		}
		h.fail(w, r, apperr.Validation("no file received"), "")
		return
	}
	defer file.Close()

	path, err := h.svc.UploadProfilePicture(r.Context(), identity(r), header.Filename, file)
	if err != nil {
		h.fail(w, r, err, "failed to upload picture")
		return
	}
	respond.JSON(w, http.StatusOK, dto.UploadPictureResponse{
		Success:        true,
		Message:        "Profile picture updated successfully",
		ProfilePicture: path,
	})
}
