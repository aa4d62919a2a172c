package models

import (
	"time"

	"safareasy/internal/domain"
)

// Payment is a passenger's settled (or pending) money for one ticket.
// Settlement only ever reads completed payments.
type Payment struct {
	ID             int64                `json:"id"`
	TicketID       int64                `json:"ticket_id"`
	TripID         int64                `json:"trip_id"`
	PassengerID    int64                `json:"passenger_id"`
	AmountCents    int64                `json:"amount_cents"`
	Method         string               `json:"method"`
	Status         domain.PaymentStatus `json:"status"`
	TransactionRef string               `json:"transaction_ref,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}
