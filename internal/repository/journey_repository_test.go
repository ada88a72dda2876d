package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olekhv/train-station-api/internal/model"
)

func newJourneyRepoMock(t *testing.T) (sqlmock.Sqlmock, *JourneyRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewJourneyRepo(db)
}

func TestJourneyCreateTxRejectsInvalidWindow(t *testing.T) {
	mock, repo := newJourneyRepoMock(t)
	mock.ExpectBegin()

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)

	dep := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	j := &model.Journey{RouteID: 1, TrainID: 2, DepartureTime: dep, ArrivalTime: dep}
	err = repo.CreateTx(context.Background(), tx, j, nil)
	assert.ErrorIs(t, err, ErrInvalidTimeWindow, "equal times are not allowed")

	j.ArrivalTime = dep.Add(-time.Hour)
	err = repo.CreateTx(context.Background(), tx, j, nil)
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestJourneyCreateTxWithCrew(t *testing.T) {
	mock, repo := newJourneyRepoMock(t)
	dep := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	arr := dep.Add(5 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO journeys (route_id, train_id, departure_time, arrival_time) VALUES (?, ?, ?, ?)`)).
		WithArgs(1, 2, dep, arr).
		WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO journey_crew (journey_id, crew_id) VALUES (?, ?),(?, ?)`)).
		WithArgs(15, 4, 15, 6).
		WillReturnResult(sqlmock.NewResult(0, 2))

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)

	j := &model.Journey{RouteID: 1, TrainID: 2, DepartureTime: dep, ArrivalTime: arr}
	require.NoError(t, repo.CreateTx(context.Background(), tx, j, []uint64{4, 6}))
	assert.Equal(t, uint64(15), j.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJourneyListComputesAvailability(t *testing.T) {
	mock, repo := newJourneyRepoMock(t)
	dep := time.Date(2026, 9, 3, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT j\.id, r\.name, t\.name, t\.number, tt\.name`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route", "train", "number", "type", "dep", "arr", "available"}).
			AddRow(15, "Kyiv - Lviv", "Podilskyi Express", "IC-715", "Intercity", dep, dep.Add(5*time.Hour), 97))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT jc.journey_id, CONCAT(c.first_name, ' ', c.last_name)`)).
		WithArgs(15).
		WillReturnRows(sqlmock.NewRows([]string{"journey_id", "name"}).
			AddRow(15, "Anna Kovalenko").
			AddRow(15, "Bohdan Shevchuk"))

	items, err := repo.List(context.Background(), JourneyFilter{DepartureDay: 3})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(97), items[0].TicketsAvailable)
	assert.Equal(t, []string{"Anna Kovalenko", "Bohdan Shevchuk"}, items[0].Crew)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJourneyListDayFilterArgs(t *testing.T) {
	mock, repo := newJourneyRepoMock(t)

	mock.ExpectQuery(`DAY\(j\.departure_time\) = \? AND DAY\(j\.arrival_time\) = \? AND j\.train_id = \?`).
		WithArgs(31, 1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route", "train", "number", "type", "dep", "arr", "available"}))

	items, err := repo.List(context.Background(), JourneyFilter{DepartureDay: 31, ArrivalDay: 1, TrainID: 7})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJourneyUpdateNotFound(t *testing.T) {
	mock, repo := newJourneyRepoMock(t)
	dep := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE journeys SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	j := &model.Journey{ID: 999, RouteID: 1, TrainID: 2, DepartureTime: dep, ArrivalTime: dep.Add(time.Hour)}
	err := repo.Update(context.Background(), j)
	assert.ErrorIs(t, err, ErrJourneyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
