package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olekhv/train-station-api/internal/model"
	"github.com/olekhv/train-station-api/internal/repository"
)

// TicketRequest is one requested seat in an order: which seat, in
// which carriage, on which journey.
type TicketRequest struct {
	Seat     uint32 `json:"seat"`
	Carriage uint64 `json:"carriage"`
	Journey  uint64 `json:"journey"`
}

// Service coordinates order placement.  All ticket writes run inside
// a single transaction per order; the first validation failure aborts
// the whole order so no partial writes survive.
type Service struct {
	Orders    *repository.OrderRepo
	Carriages *repository.CarriageRepo
	Journeys  *repository.JourneyRepo
}

// NewService constructs a Service with the provided repositories.
// All dependencies must be non-nil.
func NewService(orders *repository.OrderRepo, carriages *repository.CarriageRepo, journeys *repository.JourneyRepo) *Service {
	if orders == nil || carriages == nil || journeys == nil {
		panic("nil repository passed to booking.NewService")
	}
	return &Service{Orders: orders, Carriages: carriages, Journeys: journeys}
}

// PlaceOrder creates an order holding one ticket per request, all or
// nothing.  Requests are processed in the order submitted; the first
// failing ticket aborts the transaction and its TicketError reports
// which request failed and why.  On success the persisted order is
// returned with its tickets annotated with derived prices and
// carriage/journey display fields.
func (s *Service) PlaceOrder(ctx context.Context, userID uint64, reqs []TicketRequest) (*repository.OrderDetail, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyOrder
	}
	tx, err := s.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order := &model.Order{UserID: userID}
	if err := s.Orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	for i, req := range reqs {
		if err := s.reserveSeat(ctx, tx, order.ID, i, req); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		// A unique key violation at commit time means a concurrent
		// order won the race for one of the seats.
		if repository.IsDuplicateTicket(err) {
			return nil, ticketErr(0, "seat", ErrSeatTaken, "seat was booked by a concurrent order")
		}
		return nil, err
	}
	committed = true
	return s.Orders.GetByIDForUser(ctx, order.ID, userID)
}

// reserveSeat validates one ticket request inside the order's
// transaction and inserts the ticket when every check passes.
// Validation order follows the API contract: existence of the
// referenced rows, train consistency, seat uniqueness, then seat
// range.
func (s *Service) reserveSeat(ctx context.Context, tx *sql.Tx, orderID uint64, index int, req TicketRequest) error {
	carriage, err := s.Carriages.GetByIDTx(ctx, tx, req.Carriage)
	if err != nil {
		if errors.Is(err, repository.ErrCarriageNotFound) {
			return ticketErr(index, "carriage", err, fmt.Sprintf("carriage %d does not exist", req.Carriage))
		}
		return err
	}
	journey, err := s.Journeys.GetByIDTx(ctx, tx, req.Journey)
	if err != nil {
		if errors.Is(err, repository.ErrJourneyNotFound) {
			return ticketErr(index, "journey", err, fmt.Sprintf("journey %d does not exist", req.Journey))
		}
		return err
	}
	if carriage.TrainID != journey.TrainID {
		return ticketErr(index, "carriage", ErrTrainMismatch,
			fmt.Sprintf("carriage %d belongs to train %d, journey %d runs train %d",
				carriage.ID, carriage.TrainID, journey.ID, journey.TrainID))
	}
	taken, err := s.Orders.TicketExistsTx(ctx, tx, req.Carriage, req.Seat, req.Journey)
	if err != nil {
		return err
	}
	if taken {
		return ticketErr(index, "seat", ErrSeatTaken,
			fmt.Sprintf("a ticket for seat %d in carriage %d on journey %d already exists",
				req.Seat, carriage.Number, journey.ID))
	}
	if !carriage.IsSeatNumberValid(req.Seat) {
		return ticketErr(index, "seat", ErrSeatOutOfRange,
			fmt.Sprintf("seat number must be in available range: (1, %d), but got: %d",
				carriage.Seats, req.Seat))
	}
	ticket := &model.Ticket{
		OrderID:    orderID,
		CarriageID: req.Carriage,
		JourneyID:  req.Journey,
		Seat:       req.Seat,
	}
	if err := s.Orders.InsertTicketTx(ctx, tx, ticket); err != nil {
		if repository.IsDuplicateTicket(err) {
			return ticketErr(index, "seat", ErrSeatTaken,
				fmt.Sprintf("a ticket for seat %d in carriage %d on journey %d already exists",
					req.Seat, carriage.Number, journey.ID))
		}
		return err
	}
	return nil
}
