package model

import "time"

// Journey is a scheduled run of one train over one route within a
// time window.  Departure must precede arrival.  Crew assignments
// live in the `journey_crew` join table.  This struct corresponds to
// a row in the `journeys` table.
type Journey struct {
	ID            uint64    // journeys.id
	RouteID       uint64    // journeys.route_id
	TrainID       uint64    // journeys.train_id
	DepartureTime time.Time // journeys.departure_time
	ArrivalTime   time.Time // journeys.arrival_time
	ImageURL      *string   // journeys.image_url (nullable)
}
