package models

import (
	"time"

	"safareasy/internal/domain"
)

// Ticket is a passenger's claim to a seat on exactly one trip. TripID is the
// only mutable binding; reallocation rewrites it, never the codes.
type Ticket struct {
	ID          int64               `json:"id"`
	PassengerID int64               `json:"passenger_id"`
	TripID      int64               `json:"trip_id"`
	RouteID     int64               `json:"route_id"`
	Class       domain.TripClass    `json:"class"`
	Status      domain.TicketStatus `json:"status"`
	QRCode      string              `json:"qr_code"`
	ShortCode   string              `json:"short_code"`
	PaymentID   *int64              `json:"payment_id,omitempty"`
	DiscountID  *int64              `json:"discount_id,omitempty"`

	// NeedsAttention marks tickets left on a canceled trip because no
	// substitute existed; support staff resolve these manually.
	NeedsAttention bool      `json:"needs_attention"`
	RegisteredAt   time.Time `json:"registered_at"`
}
