package dto

import "github.com/vacameet/vaca-meet-api/internal/models"

// UpdateProfileRequest accepts username only so it can be dropped explicitly.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Username  *string `json:"username"`
}

type UpdateThemeRequest struct {
	Theme string `json:"theme"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ProfileResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	User    models.UserPublic `json:"user"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UploadPictureResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ProfilePicture string `json:"profilePicture"`
}
