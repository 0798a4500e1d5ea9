package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/storage"
)

// memStore is an in-memory storage.Store for service tests.
type memStore struct {
	mu           sync.Mutex
	users        map[int64]models.User
	destinations map[int64]models.Destination
	passwords    map[int64]string
	activities   []models.Activity
	nextID       int64
	failWith     error
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:        map[int64]models.User{},
		destinations: map[int64]models.Destination{},
		passwords:    map[int64]string{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (m *memStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) update(id int64, fn func(*models.User)) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	fn(&u)
	m.users[id] = u
	return u, nil
}

func (m *memStore) UpdateNames(_ context.Context, id int64, firstName, lastName *string) (models.User, error) {
	return m.update(id, func(u *models.User) {
		if firstName != nil {
			u.FirstName = firstName
		}
		if lastName != nil {
			u.LastName = lastName
		}
	})
}

func (m *memStore) UpdateTheme(_ context.Context, id int64, theme models.Theme) (models.User, error) {
	return m.update(id, func(u *models.User) { u.Theme = theme })
}

func (m *memStore) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	_, err := m.update(id, func(u *models.User) { u.PasswordHash = hash })
	return err
}

func (m *memStore) UpdateProfilePicture(_ context.Context, id int64, path string) error {
	_, err := m.update(id, func(u *models.User) { u.ProfilePicture = &path })
	return err
}

func (m *memStore) ListDestinations(context.Context) ([]models.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]models.Destination, 0, len(m.destinations))
	for _, d := range m.destinations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memStore) FindDestination(_ context.Context, id int64) (models.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.destinations[id]
	if !ok {
		return models.Destination{}, storage.ErrNotFound
	}
	return d, nil
}

func (m *memStore) VacationPassword(_ context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return "", m.failWith
	}
	pw, ok := m.passwords[id]
	if !ok {
		return "", storage.ErrNotFound
	}
	return pw, nil
}

func (m *memStore) ListActivities(_ context.Context, organizerID int64, period *models.DateRange) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.Activity
	for _, a := range m.activities {
		if a.OrganizerID != organizerID {
			continue
		}
		if period != nil && (a.StartDateTime.Format(models.DateLayout) > period.EndDay() ||
			a.EndDateTime.Format(models.DateLayout) < period.StartDay()) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDateTime.Before(out[j].StartDateTime) })
	return out, nil
}

func (m *memStore) CreateDestination(_ context.Context, username, vacationPassword string) (models.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.destinations {
		if d.Username == username {
			return models.Destination{}, storage.ErrAlreadyExists
		}
	}
	d := models.Destination{ID: m.id(), Username: username}
	m.destinations[d.ID] = d
	m.passwords[d.ID] = vacationPassword
	return d, nil
}

func (m *memStore) VacationPasswords(context.Context) (map[int64]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]string, len(m.passwords))
	for id, pw := range m.passwords {
		out[id] = pw
	}
	return out, nil
}

func (m *memStore) SetVacationPassword(_ context.Context, id int64, stored string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.destinations[id]; !ok {
		return storage.ErrNotFound
	}
	m.passwords[id] = stored
	return nil
}

func (m *memStore) CreateCategory(context.Context, models.ActivityType) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id(), nil
}

func (m *memStore) CreateActivity(_ context.Context, activity models.Activity, _ *int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	activity.ID = m.id()
	m.activities = append(m.activities, activity)
	return activity.ID, nil
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close()                     {}

var errBoom = errors.New("boom")

type failingIssuer struct{}

func (failingIssuer) Generate(models.User) (string, error) { return "", errBoom }

// recordingMedia captures saved objects.
type recordingMedia struct {
	saved map[string][]byte
	err   error
}

func (r *recordingMedia) Save(_ context.Context, name, _ string, body io.Reader) error {
	if r.err != nil {
		return r.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if r.saved == nil {
		r.saved = map[string][]byte{}
	}
	r.saved[name] = data
	return nil
}
