package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderRepoMock(t *testing.T) (sqlmock.Sqlmock, *OrderRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewOrderRepo(db)
}

func TestOrderListByUserPagination(t *testing.T) {
	mock, repo := newOrderRepoMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)).
		WithArgs(9, 5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(31, now).
			AddRow(30, now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT tk.order_id, tk.id, tk.seat, c.number, c.carriage_type, r.name, t.number, j.departure_time`)).
		WithArgs(31, 30).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "id", "seat", "number", "carriage_type", "route", "train", "departure_time"}).
			AddRow(31, 101, 3, 1, "Business", "Kyiv - Odesa", "IC-733", now).
			AddRow(30, 100, 1, 2, "Economy", "Kyiv - Lviv", "IC-715", now))

	items, err := repo.ListByUser(context.Background(), 9, 5, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(31), items[0].ID, "newest order first")
	require.Len(t, items[0].Tickets, 1)
	assert.Equal(t, uint32(100), items[0].Tickets[0].Price)
	assert.Equal(t, uint32(50), items[1].Tickets[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderListByUserEmptyPage(t *testing.T) {
	mock, repo := newOrderRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at FROM orders WHERE user_id = ?`)).
		WithArgs(9, 5, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

	items, err := repo.ListByUser(context.Background(), 9, 5, 100)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet(), "no ticket query for an empty page")
}

func TestOrderGetByIDForUserOwnership(t *testing.T) {
	mock, repo := newOrderRepoMock(t)

	// The ownership filter makes another user's order look missing.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at FROM orders WHERE id = ? AND user_id = ?`)).
		WithArgs(31, 777).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

	_, err := repo.GetByIDForUser(context.Background(), 31, 777)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCountByUser(t *testing.T) {
	mock, repo := newOrderRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders WHERE user_id = ?`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	n, err := repo.CountByUser(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
