package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olekhv/train-station-api/internal/repository"
)

func newServiceWithMock(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(
		repository.NewOrderRepo(db),
		repository.NewCarriageRepo(db),
		repository.NewJourneyRepo(db),
	), mock
}

func expectOrderInsert(mock sqlmock.Sqlmock, userID, orderID uint64) {
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders (user_id) VALUES (?)`)).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(int64(orderID), 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT created_at FROM orders WHERE id = ?`)).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
}

func expectCarriage(mock sqlmock.Sqlmock, id, trainID uint64, number, seats uint32) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, train_id, carriage_type, number, seats FROM carriages WHERE id = ?`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "train_id", "carriage_type", "number", "seats"}).
			AddRow(id, trainID, "Economy", number, seats))
}

func expectJourney(mock sqlmock.Sqlmock, id, trainID uint64) {
	dep := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, route_id, train_id, departure_time, arrival_time, image_url FROM journeys WHERE id = ?`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "train_id", "departure_time", "arrival_time", "image_url"}).
			AddRow(id, 1, trainID, dep, dep.Add(4*time.Hour), nil))
}

func expectTicketExists(mock sqlmock.Sqlmock, carriageID uint64, seat uint32, journeyID uint64, exists bool) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM tickets WHERE carriage_id = ? AND seat = ? AND journey_id = ?)`)).
		WithArgs(carriageID, seat, journeyID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestPlaceOrderHappyPath(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	expectOrderInsert(mock, 9, 10)
	expectCarriage(mock, 3, 7, 1, 20)
	expectJourney(mock, 5, 7)
	expectTicketExists(mock, 3, 4, 5, false)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tickets (order_id, carriage_id, journey_id, seat) VALUES (?, ?, ?, ?)`)).
		WithArgs(10, 3, 5, 4).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at FROM orders WHERE id = ? AND user_id = ?`)).
		WithArgs(10, 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, time.Now().UTC()))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT tk.order_id, tk.id, tk.seat, c.number, c.carriage_type, r.name, t.number, j.departure_time`)).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "id", "seat", "number", "carriage_type", "route", "train", "departure_time"}).
			AddRow(10, 100, 4, 1, "Economy", "Kyiv - Lviv", "IC-715", time.Now().UTC()))

	detail, err := svc.PlaceOrder(context.Background(), 9, []TicketRequest{{Seat: 4, Carriage: 3, Journey: 5}})
	require.NoError(t, err)
	require.Len(t, detail.Tickets, 1)
	assert.Equal(t, uint32(4), detail.Tickets[0].Seat)
	assert.Equal(t, uint32(50), detail.Tickets[0].Price, "economy seats cost 50")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderEmpty(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	_, err := svc.PlaceOrder(context.Background(), 9, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL should run for an empty order")
}

func TestPlaceOrderSeatOutOfRange(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	expectOrderInsert(mock, 9, 10)
	expectCarriage(mock, 3, 7, 1, 20)
	expectJourney(mock, 5, 7)
	expectTicketExists(mock, 3, 50, 5, false)
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []TicketRequest{{Seat: 50, Carriage: 3, Journey: 5}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	var te *TicketError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.Index)
	assert.Equal(t, "seat", te.Field)
	assert.Contains(t, te.Detail, "(1, 20)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderSeatAlreadyTaken(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	expectOrderInsert(mock, 9, 10)
	expectCarriage(mock, 3, 7, 1, 20)
	expectJourney(mock, 5, 7)
	expectTicketExists(mock, 3, 4, 5, true)
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []TicketRequest{{Seat: 4, Carriage: 3, Journey: 5}})
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderDuplicateWithinOrder(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	expectOrderInsert(mock, 9, 10)
	// First request inserts fine.
	expectCarriage(mock, 3, 7, 1, 20)
	expectJourney(mock, 5, 7)
	expectTicketExists(mock, 3, 4, 5, false)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tickets`)).
		WithArgs(10, 3, 5, 4).
		WillReturnResult(sqlmock.NewResult(100, 1))
	// Second request repeats the same seat and is visible to the
	// in-transaction existence check.
	expectCarriage(mock, 3, 7, 1, 20)
	expectJourney(mock, 5, 7)
	expectTicketExists(mock, 3, 4, 5, true)
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []TicketRequest{
		{Seat: 4, Carriage: 3, Journey: 5},
		{Seat: 4, Carriage: 3, Journey: 5},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatTaken)

	var te *TicketError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Index, "the second ticket is the offending one")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderTrainMismatch(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	expectOrderInsert(mock, 9, 10)
	expectCarriage(mock, 3, 7, 1, 20)
	expectJourney(mock, 5, 8) // journey runs a different train
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []TicketRequest{{Seat: 4, Carriage: 3, Journey: 5}})
	assert.ErrorIs(t, err, ErrTrainMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderUnknownCarriage(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	expectOrderInsert(mock, 9, 10)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, train_id, carriage_type, number, seats FROM carriages WHERE id = ?`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "train_id", "carriage_type", "number", "seats"}))
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []TicketRequest{{Seat: 1, Carriage: 99, Journey: 5}})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrCarriageNotFound)

	var te *TicketError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "carriage", te.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderLostRaceOnInsert(t *testing.T) {
	svc, mock := newServiceWithMock(t)

	mock.ExpectBegin()
	expectOrderInsert(mock, 9, 10)
	expectCarriage(mock, 3, 7, 1, 20)
	expectJourney(mock, 5, 7)
	expectTicketExists(mock, 3, 4, 5, false)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tickets`)).
		WithArgs(10, 3, 5, 4).
		WillReturnError(fmt.Errorf("Error 1062 (23000): Duplicate entry '3-4-5' for key 'uq_tickets_seat'"))
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), 9, []TicketRequest{{Seat: 4, Carriage: 3, Journey: 5}})
	assert.ErrorIs(t, err, ErrSeatTaken, "unique key violation maps to the same validation error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewServicePanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, nil, nil) })
}

func TestTicketErrorUnwrap(t *testing.T) {
	te := ticketErr(2, "seat", ErrSeatTaken, "already booked")
	assert.True(t, errors.Is(te, ErrSeatTaken))
	assert.Contains(t, te.Error(), "ticket 2")
}
