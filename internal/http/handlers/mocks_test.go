package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/service"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, in service.RegisterInput) (models.UserPublic, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.UserPublic), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(service.LoginResult), args.Error(1)
}

type mockProfileService struct{ mock.Mock }

func (m *mockProfileService) GetProfile(ctx context.Context, id auth.Identity) (models.UserPublic, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UserPublic), args.Error(1)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, id auth.Identity, patch service.ProfilePatch) (service.UpdateResult, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(service.UpdateResult), args.Error(1)
}

func (m *mockProfileService) UpdateTheme(ctx context.Context, id auth.Identity, theme string) (models.UserPublic, error) {
	args := m.Called(ctx, id, theme)
	return args.Get(0).(models.UserPublic), args.Error(1)
}

func (m *mockProfileService) UpdatePassword(ctx context.Context, id auth.Identity, current, next string) error {
	return m.Called(ctx, id, current, next).Error(0)
}

func (m *mockProfileService) UploadProfilePicture(ctx context.Context, id auth.Identity, filename string, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, id, filename, data)
	return args.String(0), args.Error(1)
}

type mockCampingService struct{ mock.Mock }

func (m *mockCampingService) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	args := m.Called(ctx)
	dests, _ := args.Get(0).([]models.Destination)
	return dests, args.Error(1)
}

func (m *mockCampingService) VerifyDestinationPassword(ctx context.Context, destinationID int64, password string) (bool, error) {
	args := m.Called(ctx, destinationID, password)
	return args.Bool(0), args.Error(1)
}

func (m *mockCampingService) GetCampingInfo(ctx context.Context, id auth.Identity, destinationID int64) (models.CampingInfo, error) {
	args := m.Called(ctx, id, destinationID)
	return args.Get(0).(models.CampingInfo), args.Error(1)
}

func (m *mockCampingService) ListActivities(ctx context.Context, organizerID int64, period *models.DateRange) ([]models.ActivityView, error) {
	args := m.Called(ctx, organizerID, period)
	views, _ := args.Get(0).([]models.ActivityView)
	return views, args.Error(1)
}

var testOptions = Options{Log: logging.Discard()}

var caller = auth.Identity{UserID: 7, Username: "ann"}

// fakeAuth injects caller into every request, standing in for the bearer middleware.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), caller)))
	})
}

// denyAuth rejects every request.
func denyAuth(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}
