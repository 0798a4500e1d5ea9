// Package service holds the business operations behind the HTTP boundary.
// Every operation receives its caller identity explicitly.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/storage"
)

// invalidCredentials is shared by every login failure so callers cannot tell
// an unknown username from a wrong password.
const invalidCredentials = "invalid credentials"

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Generate(user models.User) (string, error)
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username  string  `json:"username" validate:"required,max=180"`
	Password  string  `json:"password" validate:"required"`
	FirstName *string `json:"firstName" validate:"omitempty,max=255"`
	LastName  *string `json:"lastName" validate:"omitempty,max=255"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  models.UserPublic
	Token string
}

// AuthService registers users and authenticates them.
type AuthService struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	tokens TokenIssuer
	log    logging.Logger
}

// NewAuthService wires the service.
func NewAuthService(users storage.UserStore, hasher *auth.PasswordHasher, tokens TokenIssuer, log logging.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a user with the default role and theme. No token is issued.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.UserPublic, error) {
	in.Username = strings.TrimSpace(in.Username)
	if strings.TrimSpace(in.Password) == "" {
		in.Password = ""
	}
	if err := validateStruct(in); err != nil {
		s.log.Warn(ctx, "registration rejected", "username", in.Username, "reason", err.Error())
		return models.UserPublic{}, err
	}

	_, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		s.log.Info(ctx, "registration rejected: username taken", "username", in.Username)
		return models.UserPublic{}, apperr.Conflict("username already in use")
	case !errors.Is(err, storage.ErrNotFound):
		s.log.Error(ctx, "registration lookup failed", "username", in.Username, "error", err)
		return models.UserPublic{}, apperr.Internal("failed to create user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "username", in.Username, "error", err)
		return models.UserPublic{}, apperr.Internal("failed to hash password", err)
	}

	created, err := s.users.CreateUser(ctx, models.User{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.RoleUser,
		Theme:        models.ThemeDefault,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.log.Info(ctx, "registration rejected: username taken", "username", in.Username)
			return models.UserPublic{}, apperr.Conflict("username already in use")
		}
		s.log.Error(ctx, "create user failed", "username", in.Username, "error", err)
		return models.UserPublic{}, apperr.Internal("failed to create user", err)
	}

	s.log.Info(ctx, "user registered", "username", created.Username, "user_id", created.ID)
	return created.Public(), nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	s.log.Info(ctx, "login attempt", "username", username)
	if username == "" || password == "" {
		return LoginResult{}, apperr.Validation("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Info(ctx, "login failed: unknown user", "username", username)
			return LoginResult{}, apperr.Unauthorized(invalidCredentials)
		}
		s.log.Error(ctx, "login lookup failed", "username", username, "error", err)
		return LoginResult{}, apperr.Internal("failed to fetch user", err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		s.log.Info(ctx, "login failed: bad password", "username", username)
		return LoginResult{}, apperr.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.log.Error(ctx, "token generation failed", "username", username, "error", err)
		return LoginResult{}, apperr.Internal("failed to generate token", err)
	}

	s.log.Info(ctx, "login succeeded", "username", username, "user_id", user.ID)
	return LoginResult{User: user.Public(), Token: token}, nil
}
