package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/language"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/i18n"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/storage"
)

const timeOfDay = "15:04"

// CampingStore is the persistence needed by CampingService.
type CampingStore interface {
	storage.DestinationStore
	storage.ActivityStore
	storage.CatalogWriter
}

// CampingService serves the destination directory and camping programmes.
type CampingService struct {
	store  CampingStore
	hasher *auth.PasswordHasher
	locale language.Tag
	log    logging.Logger
}

// NewCampingService wires the service. locale selects the language of weekday names.
func NewCampingService(store CampingStore, hasher *auth.PasswordHasher, locale string, log logging.Logger) *CampingService {
	return &CampingService{store: store, hasher: hasher, locale: i18n.Locale(locale), log: log}
}

// ListDestinations returns every destination ordered by username.
func (s *CampingService) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	destinations, err := s.store.ListDestinations(ctx)
	if err != nil {
		s.log.Error(ctx, "list destinations failed", "error", err)
		return nil, apperr.Internal("failed to fetch destinations", err)
	}
	if destinations == nil {
		destinations = []models.Destination{}
	}
	s.log.Info(ctx, "destinations listed", "count", len(destinations))
	return destinations, nil
}

// VerifyDestinationPassword reports whether password unlocks destinationID.
// Unknown destinations never verify.
func (s *CampingService) VerifyDestinationPassword(ctx context.Context, destinationID int64, password string) (bool, error) {
	if destinationID <= 0 || password == "" {
		return false, apperr.Validation("destinationId and password are required")
	}
	stored, err := s.store.VacationPassword(ctx, destinationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Info(ctx, "vacation password check for unknown destination", "destination_id", destinationID)
			return false, nil
		}
		s.log.Error(ctx, "vacation password lookup failed", "destination_id", destinationID, "error", err)
		return false, apperr.Internal("failed to verify password", err)
	}

	ok, legacy := s.hasher.VerifyShared(stored, password)
	if legacy {
		s.log.Warn(ctx, "destination still has a plaintext vacation password", "destination_id", destinationID)
	}
	s.log.Info(ctx, "vacation password checked", "destination_id", destinationID, "valid", ok)
	return ok, nil
}

// GetCampingInfo returns the header of a destination for an authenticated caller.
func (s *CampingService) GetCampingInfo(ctx context.Context, id auth.Identity, destinationID int64) (models.CampingInfo, error) {
	if id.IsZero() {
		return models.CampingInfo{}, apperr.Unauthorized("user not authenticated")
	}
	dest, err := s.store.FindDestination(ctx, destinationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.CampingInfo{}, apperr.NotFound("camping not found")
		}
		s.log.Error(ctx, "camping lookup failed", "destination_id", destinationID, "error", err)
		return models.CampingInfo{}, apperr.Internal("failed to fetch camping", err)
	}

	s.log.Info(ctx, "camping info served", "destination_id", dest.ID, "user_id", id.UserID)
	return models.CampingInfo{
		Camping: models.Camping{
			ID:       dest.ID,
			Name:     "Camping " + dest.Username,
			Username: dest.Username,
		},
		Animations: []any{},
		Services:   []any{},
		Activities: []models.ActivityView{},
	}, nil
}

// ListActivities returns the programme of organizerID, restricted to the
// activities overlapping period when it is non-nil.
func (s *CampingService) ListActivities(ctx context.Context, organizerID int64, period *models.DateRange) ([]models.ActivityView, error) {
	activities, err := s.store.ListActivities(ctx, organizerID, period)
	if err != nil {
		s.log.Error(ctx, "list activities failed", "organizer_id", organizerID, "error", err)
		return nil, apperr.Internal("failed to fetch activities", err)
	}

	views := make([]models.ActivityView, 0, len(activities))
	for _, a := range activities {
		views = append(views, s.view(a))
	}
	return views, nil
}

func (s *CampingService) view(a models.Activity) models.ActivityView {
	return models.ActivityView{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Day:          i18n.Weekday(s.locale, a.StartDateTime.Weekday()),
		StartTime:    a.StartDateTime.Format(timeOfDay),
		EndTime:      a.EndDateTime.Format(timeOfDay),
		Location:     a.Location,
		Participants: a.MaxParticipants,
		Type:         a.Category,
	}
}

// CreateDestination registers a destination with a hashed vacation password.
func (s *CampingService) CreateDestination(ctx context.Context, username, vacationPassword string) (models.Destination, error) {
	username = strings.TrimSpace(username)
	if username == "" || vacationPassword == "" {
		return models.Destination{}, apperr.Validation("username and vacation password are required")
	}
	hash, err := s.hasher.Hash(vacationPassword)
	if err != nil {
		return models.Destination{}, apperr.Internal("failed to hash password", err)
	}
	dest, err := s.store.CreateDestination(ctx, username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Destination{}, apperr.Conflict("destination already exists")
		}
		return models.Destination{}, apperr.Internal("failed to create destination", err)
	}
	s.log.Info(ctx, "destination created", "destination_id", dest.ID, "username", dest.Username)
	return dest, nil
}

// HashLegacyVacationPasswords replaces every plaintext vacation password with
// its bcrypt hash and returns how many rows were rewritten.
func (s *CampingService) HashLegacyVacationPasswords(ctx context.Context) (int, error) {
	stored, err := s.store.VacationPasswords(ctx)
	if err != nil {
		return 0, apperr.Internal("failed to read vacation passwords", err)
	}
	rewritten := 0
	for id, value := range stored {
		if value == "" || auth.IsHash(value) {
			continue
		}
		hash, err := s.hasher.Hash(value)
		if err != nil {
			return rewritten, apperr.Internal("failed to hash password", err)
		}
		if err := s.store.SetVacationPassword(ctx, id, hash); err != nil {
			return rewritten, apperr.Internal("failed to store vacation password", err)
		}
		s.log.Info(ctx, "vacation password hashed", "destination_id", id)
		rewritten++
	}
	return rewritten, nil
}
