package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/olekhv/train-station-api/internal/model"
)

// OrderRepo provides persistence for orders and their tickets.
// Tickets are only ever written through a transaction opened by the
// booking service; there is no standalone ticket creation.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the given DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// DB exposes the underlying sql.DB so the booking service can open a
// transaction spanning order and ticket writes.
func (r *OrderRepo) DB() *sql.DB {
	return r.db
}

// TicketDisplay is the list view of a ticket: the seat plus a
// snapshot of carriage and journey display fields.
type TicketDisplay struct {
	ID                   uint64    `json:"id"`
	Seat                 uint32    `json:"seat"`
	CarriageNumber       uint32    `json:"carriage_number"`
	CarriageType         string    `json:"carriage_type"`
	Price                uint32    `json:"price"`
	JourneyRouteName     string    `json:"journey_route_name"`
	JourneyTrainNumber   string    `json:"journey_train_number"`
	JourneyDepartureTime time.Time `json:"journey_departure_time"`
}

// OrderDetail is an order with its tickets as returned to the owning
// user.
type OrderDetail struct {
	ID        uint64          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Tickets   []TicketDisplay `json:"tickets"`
}

// CreateTx inserts a new order within the caller's transaction and
// reads back the DB-assigned creation timestamp.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (user_id) VALUES (?)`
	res, err := tx.ExecContext(ctx, q, o.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT created_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt)
}

// TicketExistsTx reports whether a ticket for the given
// (carriage, seat, journey) triple already exists, as seen from
// inside the caller's transaction.  Tickets inserted earlier in the
// same transaction are visible, so duplicates within one order are
// caught here deterministically.
func (r *OrderRepo) TicketExistsTx(ctx context.Context, tx *sql.Tx, carriageID uint64, seat uint32, journeyID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tickets WHERE carriage_id = ? AND seat = ? AND journey_id = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, carriageID, seat, journeyID).Scan(&exists)
	return exists, err
}

// InsertTicketTx inserts a ticket within the caller's transaction.
// The unique key on (carriage_id, seat, journey_id) backstops the
// pre-check; callers must translate a duplicate entry error into the
// seat-taken validation failure.
func (r *OrderRepo) InsertTicketTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (order_id, carriage_id, journey_id, seat) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.OrderID, t.CarriageID, t.JourneyID, t.Seat)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// IsDuplicateTicket reports whether err is the unique key violation
// for the tickets table.
func IsDuplicateTicket(err error) bool {
	return isDuplicateEntry(err)
}

// CountByUser returns the number of orders owned by the user.
func (r *OrderRepo) CountByUser(ctx context.Context, userID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM orders WHERE user_id = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}

// ListByUser returns a page of the user's orders, newest first, each
// with its ticket display rows.  Offset and limit are computed by the
// caller from the page parameters.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]OrderDetail, error) {
	const q = `SELECT id, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []OrderDetail{}
	ids := make([]uint64, 0)
	for rows.Next() {
		var od OrderDetail
		if err := rows.Scan(&od.ID, &od.CreatedAt); err != nil {
			return nil, err
		}
		od.Tickets = []TicketDisplay{}
		out = append(out, od)
		ids = append(ids, od.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	byOrder, err := r.ticketsByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if ts, ok := byOrder[out[i].ID]; ok {
			out[i].Tickets = ts
		}
	}
	return out, nil
}

// GetByIDForUser returns one order with tickets, enforcing ownership:
// an order that exists but belongs to another user is reported as
// not found.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, userID uint64) (*OrderDetail, error) {
	const q = `SELECT id, created_at FROM orders WHERE id = ? AND user_id = ?`
	var od OrderDetail
	err := r.db.QueryRowContext(ctx, q, orderID, userID).Scan(&od.ID, &od.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	od.Tickets = []TicketDisplay{}
	byOrder, err := r.ticketsByOrder(ctx, []uint64{od.ID})
	if err != nil {
		return nil, err
	}
	if ts, ok := byOrder[od.ID]; ok {
		od.Tickets = ts
	}
	return &od, nil
}

// ticketsByOrder loads ticket display rows for a set of orders in one
// query, ordered by carriage then seat.  Prices are derived from the
// carriage type.
func (r *OrderRepo) ticketsByOrder(ctx context.Context, orderIDs []uint64) (map[uint64][]TicketDisplay, error) {
	q := `SELECT tk.order_id, tk.id, tk.seat, c.number, c.carriage_type, r.name, t.number, j.departure_time
	      FROM tickets tk
	      JOIN carriages c ON c.id = tk.carriage_id
	      JOIN journeys j ON j.id = tk.journey_id
	      JOIN routes r ON r.id = j.route_id
	      JOIN trains t ON t.id = j.train_id
	      WHERE tk.order_id IN (`
	args := make([]interface{}, 0, len(orderIDs))
	for i, id := range orderIDs {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += `) ORDER BY c.number, tk.seat`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make(map[uint64][]TicketDisplay)
	for rows.Next() {
		var oid uint64
		var td TicketDisplay
		if err := rows.Scan(&oid, &td.ID, &td.Seat, &td.CarriageNumber, &td.CarriageType,
			&td.JourneyRouteName, &td.JourneyTrainNumber, &td.JourneyDepartureTime); err != nil {
			return nil, err
		}
		td.Price = model.CarriageType(td.CarriageType).SeatPrice()
		res[oid] = append(res[oid], td)
	}
	return res, rows.Err()
}
