package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacameet/vaca-meet-api/internal/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return &Store{db: db}, mock
}

func TestFindByID_PropagatesDriverError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM mobile_users WHERE id = ?`)).
		WithArgs(int64(1)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := store.FindByID(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestListDestinations_ScansRows(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM destinations ORDER BY username ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "azur").AddRow(1, "zenitude"))

	list, err := store.ListDestinations(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, "zenitude", list[1].Username)
}

func TestUpdatePasswordHash_NoRowsIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE mobile_users SET password_hash = ? WHERE id = ?`)).
		WithArgs("h", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.UpdatePasswordHash(context.Background(), 9, "h"), storage.ErrNotFound)
}

func TestListActivities_RejectsMalformedTimestamp(t *testing.T) {
	store, mock := newMockStore(t)
	cols := []string{"id", "name", "description", "location", "max_participants", "organizer_id",
		"start_date_time", "end_date_time", "cid", "cname", "ccolor", "cicon"}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM activities a`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "Yoga", nil, nil, nil, 1, "yesterday", "2024-07-01 10:00:00", nil, nil, nil, nil))

	_, err := store.ListActivities(context.Background(), 1, nil)
	assert.Error(t, err)
}
