// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// OrderPlacedEvent is published after an order commits.  It carries
// enough context for downstream consumers to log or notify without
// querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64   `json:"order_id"`
	UserID      uint64   `json:"user_id"`
	TicketCount int      `json:"ticket_count"`
	TotalPrice  uint32   `json:"total_price"`
	Journeys    []string `json:"journeys"` // "route / train number" per distinct journey
	PlacedAt    string   `json:"placed_at"`
}
