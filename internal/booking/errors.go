// Package booking implements seat allocation and atomic order
// placement.  It is the only code path that writes tickets: every
// ticket is validated against the carriage's seat range, the
// journey/carriage train pairing and the set of already issued
// tickets, inside one transaction per order.
package booking

import (
	"errors"
	"fmt"
)

// ErrEmptyOrder is returned when an order is placed with no tickets.
var ErrEmptyOrder = errors.New("an order must contain at least one ticket")

// ErrSeatTaken is returned when a ticket for the same
// (carriage, seat, journey) triple already exists.  It covers both
// the in-transaction pre-check and the unique key violation raised
// when a concurrent order wins the race.
var ErrSeatTaken = errors.New("ticket for this seat on this journey already exists")

// ErrSeatOutOfRange is returned when the requested seat number falls
// outside [1, carriage.seats].
var ErrSeatOutOfRange = errors.New("seat number is outside the carriage seat range")

// ErrTrainMismatch is returned when the requested carriage belongs to
// a different train than the journey's train.  Mixing trains within
// one ticket is rejected outright rather than silently allowed.
var ErrTrainMismatch = errors.New("carriage does not belong to the journey's train")

// TicketError annotates a validation failure with the position of the
// offending ticket request and the request field it concerns, so the
// caller can report exactly which ticket broke the order.
type TicketError struct {
	Index  int    // zero-based position in the submitted ticket list
	Field  string // offending request field (seat, carriage, journey)
	Detail string // human readable description
	Err    error  // underlying sentinel
}

// Error implements the error interface.
func (e *TicketError) Error() string {
	return fmt.Sprintf("ticket %d: %s", e.Index, e.Detail)
}

// Unwrap exposes the underlying sentinel for errors.Is comparisons.
func (e *TicketError) Unwrap() error {
	return e.Err
}

func ticketErr(index int, field string, err error, detail string) *TicketError {
	return &TicketError{Index: index, Field: field, Detail: detail, Err: err}
}
