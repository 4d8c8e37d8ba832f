package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coc-ops/roombook-api/pkg/config"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

func newRoomRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRoomRepositoryList(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "capacity"}).
		AddRow("Meeting A", 4).
		AddRow("Meeting B", 6)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, capacity FROM rooms ORDER BY id ASC")).
		WillReturnRows(rows)

	rooms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Meeting A", rooms[0].ID)
	assert.Equal(t, 6, rooms[1].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "capacity"}).AddRow("Auditorium", 20)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, capacity FROM rooms WHERE id = $1")).
		WithArgs("Auditorium").
		WillReturnRows(rows)

	room, err := repo.FindByID(context.Background(), "Auditorium")
	require.NoError(t, err)
	assert.Equal(t, 20, room.Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, capacity FROM rooms WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "capacity"}))

	_, err := repo.FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStaticRoomProviderCopiesCatalog(t *testing.T) {
	provider := NewStaticRoomProvider([]config.StaticRoom{
		{ID: "Meeting A", Capacity: 4},
		{ID: "Auditorium", Capacity: 20},
	})

	rooms, err := provider.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	rooms[0].Capacity = 99
	again, err := provider.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, again[0].Capacity)
}
