package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/storage"
	"github.com/vacameet/vaca-meet-api/internal/storage/migrations"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()
	return migrations.Up(ctx, db, migrations.Postgres)
}

const userColumns = `id, username, password_hash, first_name, last_name, role, theme, profile_picture, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO mobile_users (username, password_hash, first_name, last_name, role, theme)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Role, string(user.Theme))
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM mobile_users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM mobile_users WHERE username = $1`, username)
	return scanUser(row)
}

// UpdateNames sets the provided name fields; nil leaves a column untouched.
func (s *Store) UpdateNames(ctx context.Context, id int64, firstName, lastName *string) (models.User, error) {
	const query = `
		UPDATE mobile_users
		SET first_name = CASE WHEN $2 THEN $3 ELSE first_name END,
		    last_name = CASE WHEN $4 THEN $5 ELSE last_name END
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, id, firstName != nil, firstName, lastName != nil, lastName)
	return scanUser(row)
}

// UpdateTheme stores a new theme.
func (s *Store) UpdateTheme(ctx context.Context, id int64, theme models.Theme) (models.User, error) {
	row := s.pool.QueryRow(ctx, `UPDATE mobile_users SET theme = $2 WHERE id = $1 RETURNING `+userColumns, id, string(theme))
	return scanUser(row)
}

// UpdatePasswordHash replaces the stored password hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE mobile_users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateProfilePicture stores the public path of the user's picture.
func (s *Store) UpdateProfilePicture(ctx context.Context, id int64, path string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE mobile_users SET profile_picture = $2 WHERE id = $1`, id, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListDestinations returns the camping directory ordered by username.
func (s *Store) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, username FROM destinations ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Destination{}
	for rows.Next() {
		var d models.Destination
		if err := rows.Scan(&d.ID, &d.Username); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// FindDestination fetches one directory entry.
func (s *Store) FindDestination(ctx context.Context, id int64) (models.Destination, error) {
	var d models.Destination
	err := s.pool.QueryRow(ctx, `SELECT id, username FROM destinations WHERE id = $1`, id).Scan(&d.ID, &d.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Destination{}, storage.ErrNotFound
	}
	return d, err
}

// VacationPassword returns the stored shared password of a destination.
func (s *Store) VacationPassword(ctx context.Context, id int64) (string, error) {
	var stored string
	err := s.pool.QueryRow(ctx, `SELECT vacation_password FROM destinations WHERE id = $1`, id).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	return stored, err
}

// ListActivities returns the activities of a camping ordered by start time.
func (s *Store) ListActivities(ctx context.Context, organizerID int64, period *models.DateRange) ([]models.Activity, error) {
	query := `
	SELECT a.id, a.name, a.description, a.location, a.max_participants, a.organizer_id,
	       a.start_date_time, a.end_date_time, c.id, c.name, c.color, c.icon
	FROM activities a
	LEFT JOIN activity_categories c ON a.category_id = c.id
	WHERE a.organizer_id = $1`
	args := []any{organizerID}
	if period != nil {
		query += ` AND a.start_date_time::date <= $2::date AND a.end_date_time::date >= $3::date`
		args = append(args, period.End, period.Start)
	}
	query += ` ORDER BY a.start_date_time ASC, a.id ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Location, &a.MaxParticipants, &a.OrganizerID,
			&a.StartDateTime, &a.EndDateTime, &a.Category.ID, &a.Category.Name, &a.Category.Color, &a.Category.Icon); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateDestination inserts a directory entry.
func (s *Store) CreateDestination(ctx context.Context, username, vacationPassword string) (models.Destination, error) {
	var d models.Destination
	err := s.pool.QueryRow(ctx,
		`INSERT INTO destinations (username, vacation_password) VALUES ($1, $2) RETURNING id, username`,
		username, vacationPassword).Scan(&d.ID, &d.Username)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Destination{}, storage.ErrAlreadyExists
		}
		return models.Destination{}, err
	}
	return d, nil
}

// VacationPasswords returns every stored shared password keyed by destination id.
func (s *Store) VacationPasswords(ctx context.Context) (map[int64]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, vacation_password FROM destinations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var (
			id     int64
			stored string
		)
		if err := rows.Scan(&id, &stored); err != nil {
			return nil, err
		}
		out[id] = stored
	}
	return out, rows.Err()
}

// SetVacationPassword replaces the stored shared password of a destination.
func (s *Store) SetVacationPassword(ctx context.Context, id int64, stored string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE destinations SET vacation_password = $2 WHERE id = $1`, id, stored)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateCategory inserts an activity category and returns its id.
func (s *Store) CreateCategory(ctx context.Context, category models.ActivityType) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO activity_categories (name, color, icon) VALUES ($1, $2, $3) RETURNING id`,
		category.Name, category.Color, category.Icon).Scan(&id)
	return id, err
}

// CreateActivity inserts an activity and returns its id.
func (s *Store) CreateActivity(ctx context.Context, a models.Activity, categoryID *int64) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO activities (name, description, location, max_participants, category_id, organizer_id, start_date_time, end_date_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		a.Title, a.Description, a.Location, a.MaxParticipants, categoryID, a.OrganizerID,
		a.StartDateTime, a.EndDateTime).Scan(&id)
	return id, err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var theme string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &theme, &user.ProfilePicture, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Theme = models.Theme(theme)
	return user, nil
}
