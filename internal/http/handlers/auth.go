package handlers

import (
	"context"
	"net/http"

	"github.com/vacameet/vaca-meet-api/internal/http/respond"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/models/dto"
	"github.com/vacameet/vaca-meet-api/internal/service"
)

// AuthService is the registration and login surface used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (models.UserPublic, error)
	Login(ctx context.Context, username, password string) (service.LoginResult, error)
}

// AuthHandler owns the public register/login endpoints.
type AuthHandler struct {
	svc AuthService
	Options
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc AuthService, opts Options) *AuthHandler {
	return &AuthHandler{svc: svc, Options: opts}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", h.handleRegister)
	mux.HandleFunc("POST /api/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "invalid JSON payload")
		return
	}
	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.fail(w, r, err, "failed to create user")
		return
	}
	respond.JSON(w, http.StatusCreated, dto.RegisterResponse{Message: "User created successfully", User: user})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "invalid JSON payload")
		return
	}
	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err, "login failed")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{User: res.User, Token: res.Token, Message: "Login successful"})
}
