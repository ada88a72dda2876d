package model

import "time"

// Order groups one or more tickets bought by a user in a single
// atomic transaction.  An order with zero tickets is never persisted.
// This struct corresponds to a row in the `orders` table.
type Order struct {
	ID        uint64    // orders.id
	UserID    uint64    // orders.user_id
	CreatedAt time.Time // orders.created_at
}

// Ticket reserves one seat in one carriage for one journey.  The
// triple (carriage_id, seat, journey_id) is unique across all
// tickets; the database enforces this with a unique key so that two
// concurrent orders can never claim the same seat.  This struct
// corresponds to a row in the `tickets` table.
type Ticket struct {
	ID         uint64 // tickets.id
	OrderID    uint64 // tickets.order_id
	CarriageID uint64 // tickets.carriage_id
	JourneyID  uint64 // tickets.journey_id
	Seat       uint32 // tickets.seat
}
