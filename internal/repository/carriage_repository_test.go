package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olekhv/train-station-api/internal/model"
)

func newMockDB(t *testing.T) (sqlmock.Sqlmock, *CarriageRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewCarriageRepo(db)
}

func TestCarriageCreate(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM carriages WHERE train_id = ? AND number = ?)`)).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carriages (train_id, carriage_type, number, seats) VALUES (?, ?, ?, ?)`)).
		WithArgs(7, "Business", 2, 30).
		WillReturnResult(sqlmock.NewResult(12, 1))

	c := &model.Carriage{TrainID: 7, CarriageType: model.CarriageBusiness, Number: 2, Seats: 30}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, uint64(12), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarriageCreateDuplicateNumber(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM carriages WHERE train_id = ? AND number = ?)`)).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	c := &model.Carriage{TrainID: 7, CarriageType: model.CarriageEconomy, Number: 2, Seats: 30}
	err := repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, ErrDuplicateCarriageNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarriageCreateLostRace(t *testing.T) {
	mock, repo := newMockDB(t)

	// Pre-check passes but a concurrent insert wins before ours lands.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carriages`)).
		WithArgs(7, "Economy", 2, 30).
		WillReturnError(fmt.Errorf("Error 1062 (23000): Duplicate entry '7-2' for key 'uq_carriages_train_number'"))

	c := &model.Carriage{TrainID: 7, CarriageType: model.CarriageEconomy, Number: 2, Seats: 30}
	err := repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, ErrDuplicateCarriageNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarriageGetByIDNotFound(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, train_id, carriage_type, number, seats FROM carriages WHERE id = ?`)).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id", "train_id", "carriage_type", "number", "seats"}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCarriageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarriageListDerivesPrices(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT c.id, c.number, c.carriage_type, c.seats, t.name`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "carriage_type", "seats", "name"}).
			AddRow(1, 1, "Economy", 40, "Podilskyi Express").
			AddRow(2, 2, "Premium", 12, "Podilskyi Express"))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint32(50), items[0].SeatPrice)
	assert.Equal(t, uint32(150), items[1].SeatPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}
