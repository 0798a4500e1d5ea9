package dto

import "github.com/vacameet/vaca-meet-api/internal/models"

type RegisterRequest struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type RegisterResponse struct {
	Message string            `json:"message"`
	User    models.UserPublic `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User    models.UserPublic `json:"user"`
	Token   string            `json:"token"`
	Message string            `json:"message"`
}
