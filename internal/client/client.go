// Package client is a typed HTTP client for the Vaca-Meet API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/models/dto"
)

// ErrNotLoggedIn is returned by authenticated calls when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Cause   string
}

func (e *APIError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one API base URL.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenStore
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, tokens TokenStore, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	c := &Client{base: base, http: &http.Client{Timeout: 15 * time.Second}, tokens: tokens}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (models.UserPublic, error) {
	var resp dto.RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/register", false, req, &resp)
	return resp.User, err
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", false, dto.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return dto.LoginResponse{}, err
	}
	if err := c.tokens.SetToken(resp.Token); err != nil {
		return dto.LoginResponse{}, fmt.Errorf("store token: %w", err)
	}
	return resp, nil
}

// Logout forgets the stored token. The API keeps no session state.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// LoggedIn reports whether a token is stored.
func (c *Client) LoggedIn() bool {
	token, err := c.tokens.Token()
	return err == nil && token != ""
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (models.UserPublic, error) {
	var user models.UserPublic
	err := c.doJSON(ctx, http.MethodGet, "/api/mobile/user", true, nil, &user)
	return user, err
}

// UpdateProfile patches the name fields that are non-nil.
func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (dto.ProfileResponse, error) {
	var resp dto.ProfileResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/mobile/user/update", true, req, &resp)
	return resp, err
}

// UpdateTheme selects a theme.
func (c *Client) UpdateTheme(ctx context.Context, theme models.Theme) (models.UserPublic, error) {
	var resp dto.ProfileResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/mobile/user/update-theme", true, dto.UpdateThemeRequest{Theme: string(theme)}, &resp)
	return resp.User, err
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	req := dto.UpdatePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.doJSON(ctx, http.MethodPut, "/api/mobile/user/password", true, req, &dto.SuccessResponse{})
}

// UploadProfilePicture sends an image as the "file" form field and returns its public path.
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, image io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/mobile/user/upload-profile-picture", true, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var resp dto.UploadPictureResponse
	if err := c.do(req, true, &resp); err != nil {
		return "", err
	}
	return resp.ProfilePicture, nil
}

// Destinations lists the camping directory.
func (c *Client) Destinations(ctx context.Context) ([]models.Destination, error) {
	var resp dto.DestinationsResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/mobile/destinations", false, nil, &resp)
	return resp.Destinations, err
}

// VerifyPassword checks a destination's vacation password. A wrong password
// is reported as false rather than an error.
func (c *Client) VerifyPassword(ctx context.Context, destinationID int64, password string) (bool, error) {
	id := dto.FlexID(destinationID)
	req := dto.VerifyPasswordRequest{DestinationID: &id, Password: &password}
	var resp dto.VerifyPasswordResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/mobile/verify-password", false, req, &resp)
	if IsStatus(err, http.StatusUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// CampingInfo returns the header of a destination.
func (c *Client) CampingInfo(ctx context.Context, destinationID int64) (models.CampingInfo, error) {
	var info models.CampingInfo
	err := c.doJSON(ctx, http.MethodGet, "/api/mobile/camping/info/"+strconv.FormatInt(destinationID, 10), true, nil, &info)
	return info, err
}

// Activities returns the programme of a camping, optionally limited to
// [start, end] given as YYYY-MM-DD.
func (c *Client) Activities(ctx context.Context, campingID int64, start, end string) ([]models.ActivityView, error) {
	path := "/api/mobile/camping/" + strconv.FormatInt(campingID, 10) + "/activities"
	if start != "" && end != "" {
		path += "?" + url.Values{"start": {start}, "end": {end}}.Encode()
	}
	var resp dto.ActivitiesResponse
	err := c.doJSON(ctx, http.MethodGet, path, false, nil, &resp)
	return resp.Activities, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, authed, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, authed, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, authed bool, body io.Reader) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + ref.Path
	u.RawQuery = ref.RawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if authed {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token == "" {
			return nil, ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, authed bool, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
			apiErr.Message = body.Message
			apiErr.Cause = body.Error
		}
		if authed && resp.StatusCode == http.StatusUnauthorized {
			_ = c.tokens.Clear()
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
