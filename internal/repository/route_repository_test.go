package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olekhv/train-station-api/internal/model"
)

func newRouteRepoMock(t *testing.T) (sqlmock.Sqlmock, *RouteRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewRouteRepo(db)
}

func TestRouteCreate(t *testing.T) {
	mock, repo := newRouteRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM stations WHERE id IN (?, ?)`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO routes (name, distance, from_station_id, to_station_id) VALUES (?, ?, ?, ?)`)).
		WithArgs("Kyiv - Lviv", 540, 1, 2).
		WillReturnResult(sqlmock.NewResult(4, 1))

	rt := &model.Route{Name: "Kyiv - Lviv", Distance: 540, FromStationID: 1, ToStationID: 2}
	require.NoError(t, repo.Create(context.Background(), rt))
	assert.Equal(t, uint64(4), rt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouteCreateSameStation(t *testing.T) {
	mock, repo := newRouteRepoMock(t)

	rt := &model.Route{Name: "Loop", Distance: 1, FromStationID: 3, ToStationID: 3}
	err := repo.Create(context.Background(), rt)
	assert.ErrorIs(t, err, ErrSameStation)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL runs when endpoints match")
}

func TestRouteCreateMissingStation(t *testing.T) {
	mock, repo := newRouteRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM stations WHERE id IN (?, ?)`)).
		WithArgs(1, 999).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rt := &model.Route{Name: "Nowhere", Distance: 10, FromStationID: 1, ToStationID: 999}
	err := repo.Create(context.Background(), rt)
	assert.ErrorIs(t, err, ErrStationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
