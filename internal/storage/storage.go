package storage

import (
	"context"
	"errors"

	"github.com/vacameet/vaca-meet-api/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations on mobile users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	UpdateNames(ctx context.Context, id int64, firstName, lastName *string) (models.User, error)
	UpdateTheme(ctx context.Context, id int64, theme models.Theme) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateProfilePicture(ctx context.Context, id int64, path string) error
}

// DestinationStore reads the camping directory.
type DestinationStore interface {
	ListDestinations(ctx context.Context) ([]models.Destination, error)
	FindDestination(ctx context.Context, id int64) (models.Destination, error)
	// VacationPassword returns the stored shared password (hash or legacy plaintext).
	VacationPassword(ctx context.Context, id int64) (string, error)
}

// ActivityStore reads scheduled activities.
type ActivityStore interface {
	// ListActivities returns activities of organizerID ordered by start time.
	// When period is non-nil only activities overlapping it are returned.
	ListActivities(ctx context.Context, organizerID int64, period *models.DateRange) ([]models.Activity, error)
}

// CatalogWriter maintains destinations and their activities. It backs the admin
// command rather than the public API.
type CatalogWriter interface {
	CreateDestination(ctx context.Context, username, vacationPassword string) (models.Destination, error)
	// VacationPasswords returns every stored shared password keyed by destination id.
	VacationPasswords(ctx context.Context) (map[int64]string, error)
	SetVacationPassword(ctx context.Context, id int64, stored string) error
	CreateCategory(ctx context.Context, category models.ActivityType) (int64, error)
	CreateActivity(ctx context.Context, activity models.Activity, categoryID *int64) (int64, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	DestinationStore
	ActivityStore
	CatalogWriter
	Ping(ctx context.Context) error
	Close()
}
