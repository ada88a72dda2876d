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

func newTrainRepoMock(t *testing.T) (sqlmock.Sqlmock, *TrainRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewTrainRepo(db)
}

func TestTrainCreateDuplicateNumber(t *testing.T) {
	mock, repo := newTrainRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO trains (name, number, train_type_id) VALUES (?, ?, ?)`)).
		WithArgs("Podilskyi Express", "IC-715", 1).
		WillReturnError(fmt.Errorf("Error 1062 (23000): Duplicate entry 'IC-715' for key 'uq_trains_number'"))

	tr := &model.Train{Name: "Podilskyi Express", Number: "IC-715", TrainTypeID: 1}
	err := repo.Create(context.Background(), tr)
	assert.ErrorIs(t, err, ErrDuplicateTrainNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainListFilters(t *testing.T) {
	mock, repo := newTrainRepoMock(t)

	mock.ExpectQuery(`LOWER\(t\.name\) LIKE \? AND LOWER\(t\.number\) LIKE \? AND LOWER\(tt\.name\) LIKE \?`).
		WithArgs("%express%", "%ic%", "%intercity%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number", "type", "carriages", "capacity"}).
			AddRow(7, "Podilskyi Express", "IC-715", "Intercity", 3, 120))

	items, err := repo.List(context.Background(), TrainFilter{
		Name:          "Express",
		Number:        "IC",
		TrainTypeName: "InterCity",
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint32(3), items[0].CarriageCount)
	assert.Equal(t, uint32(120), items[0].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%express%", containsPattern("Express"))
	assert.Equal(t, "%ic-715%", containsPattern("IC-715"))
}

func TestTrainGetByIDNotFound(t *testing.T) {
	mock, repo := newTrainRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, number, train_type_id, image_url FROM trains WHERE id = ?`)).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number", "train_type_id", "image_url"}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTrainNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
