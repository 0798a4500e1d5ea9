// Package sqlite provides a SQLite-backed store for local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/storage"
	"github.com/vacameet/vaca-meet-api/internal/storage/migrations"
)

var _ storage.Store = (*Store)(nil)

// timeLayout is how naive timestamps are written to TEXT columns.
const timeLayout = "2006-01-02 15:04:05"

// Store persists API state in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return newStore(ctx, db)
}

func newStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := migrations.Up(ctx, db, migrations.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const userColumns = `id, username, password_hash, first_name, last_name, role, theme, profile_picture, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO mobile_users (username, password_hash, first_name, last_name, role, theme)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Role, string(user.Theme))
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM mobile_users WHERE id = ?`, id))
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM mobile_users WHERE username = ?`, username))
}

// UpdateNames sets the provided name fields; nil leaves a column untouched.
func (s *Store) UpdateNames(ctx context.Context, id int64, firstName, lastName *string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE mobile_users
		SET first_name = CASE WHEN ? THEN ? ELSE first_name END,
		    last_name = CASE WHEN ? THEN ? ELSE last_name END
		WHERE id = ?
		RETURNING `+userColumns,
		firstName != nil, firstName, lastName != nil, lastName, id)
	return scanUser(row)
}

// UpdateTheme stores a new theme.
func (s *Store) UpdateTheme(ctx context.Context, id int64, theme models.Theme) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `UPDATE mobile_users SET theme = ? WHERE id = ? RETURNING `+userColumns, string(theme), id))
}

// UpdatePasswordHash replaces the stored password hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return s.execOne(ctx, `UPDATE mobile_users SET password_hash = ? WHERE id = ?`, hash, id)
}

// UpdateProfilePicture stores the public path of the user's picture.
func (s *Store) UpdateProfilePicture(ctx context.Context, id int64, path string) error {
	return s.execOne(ctx, `UPDATE mobile_users SET profile_picture = ? WHERE id = ?`, path, id)
}

// ListDestinations returns the camping directory ordered by username.
func (s *Store) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM destinations ORDER BY username ASC`)
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
	err := s.db.QueryRowContext(ctx, `SELECT id, username FROM destinations WHERE id = ?`, id).Scan(&d.ID, &d.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Destination{}, storage.ErrNotFound
	}
	return d, err
}

// VacationPassword returns the stored shared password of a destination.
func (s *Store) VacationPassword(ctx context.Context, id int64) (string, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT vacation_password FROM destinations WHERE id = ?`, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
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
	WHERE a.organizer_id = ?`
	args := []any{organizerID}
	if period != nil {
		query += ` AND date(a.start_date_time) <= ? AND date(a.end_date_time) >= ?`
		args = append(args, period.EndDay(), period.StartDay())
	}
	query += ` ORDER BY a.start_date_time ASC, a.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Activity{}
	for rows.Next() {
		var (
			a          models.Activity
			start, end string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Location, &a.MaxParticipants, &a.OrganizerID,
			&start, &end, &a.Category.ID, &a.Category.Name, &a.Category.Color, &a.Category.Icon); err != nil {
			return nil, err
		}
		if a.StartDateTime, err = time.Parse(timeLayout, start); err != nil {
			return nil, fmt.Errorf("activity %d start: %w", a.ID, err)
		}
		if a.EndDateTime, err = time.Parse(timeLayout, end); err != nil {
			return nil, fmt.Errorf("activity %d end: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateDestination inserts a directory entry.
func (s *Store) CreateDestination(ctx context.Context, username, vacationPassword string) (models.Destination, error) {
	var d models.Destination
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO destinations (username, vacation_password) VALUES (?, ?) RETURNING id, username`,
		username, vacationPassword).Scan(&d.ID, &d.Username)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Destination{}, storage.ErrAlreadyExists
		}
		return models.Destination{}, err
	}
	return d, nil
}

// VacationPasswords returns every stored shared password keyed by destination id.
func (s *Store) VacationPasswords(ctx context.Context) (map[int64]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, vacation_password FROM destinations`)
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
	return s.execOne(ctx, `UPDATE destinations SET vacation_password = ? WHERE id = ?`, stored, id)
}

// CreateCategory inserts an activity category and returns its id.
func (s *Store) CreateCategory(ctx context.Context, category models.ActivityType) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO activity_categories (name, color, icon) VALUES (?, ?, ?) RETURNING id`,
		category.Name, category.Color, category.Icon).Scan(&id)
	return id, err
}

// CreateActivity inserts an activity and returns its id.
func (s *Store) CreateActivity(ctx context.Context, a models.Activity, categoryID *int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO activities (name, description, location, max_participants, category_id, organizer_id, start_date_time, end_date_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		a.Title, a.Description, a.Location, a.MaxParticipants, categoryID, a.OrganizerID,
		a.StartDateTime.Format(timeLayout), a.EndDateTime.Format(timeLayout)).Scan(&id)
	return id, err
}

func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user      models.User
		theme     string
		createdAt string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &theme, &user.ProfilePicture, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Theme = models.Theme(theme)
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		user.CreatedAt = t.UTC()
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
