package model

// CarriageType enumerates the service classes a carriage can have.
// Every class carries a fixed per-seat price.
type CarriageType string

const (
	CarriageEconomy  CarriageType = "Economy"
	CarriageBusiness CarriageType = "Business"
	CarriagePremium  CarriageType = "Premium"
)

// seatPrices maps each carriage type to its fixed per-seat price in
// monetary units.  The price does not depend on the seat count.
var seatPrices = map[CarriageType]uint32{
	CarriageEconomy:  50,
	CarriageBusiness: 100,
	CarriagePremium:  150,
}

// Valid reports whether t is one of the known carriage types.
func (t CarriageType) Valid() bool {
	_, ok := seatPrices[t]
	return ok
}

// SeatPrice returns the fixed per-seat price for the carriage type.
// Unknown types yield zero; callers should validate the type first.
func (t CarriageType) SeatPrice() uint32 {
	return seatPrices[t]
}

// Carriage is one car of a train.  Carriage numbers start at 1 and
// are unique within their train; the pair (train_id, number) is
// enforced by a unique key in the database.  This struct corresponds
// to a row in the `carriages` table.
type Carriage struct {
	ID           uint64       // carriages.id
	TrainID      uint64       // carriages.train_id
	CarriageType CarriageType // carriages.carriage_type
	Number       uint32       // carriages.number
	Seats        uint32       // carriages.seats
}

// SeatPrice returns the per-seat price derived from the carriage type.
func (c *Carriage) SeatPrice() uint32 {
	return c.CarriageType.SeatPrice()
}

// IsSeatNumberValid reports whether seat falls within [1, c.Seats].
func (c *Carriage) IsSeatNumberValid(seat uint32) bool {
	return seat >= 1 && seat <= c.Seats
}
