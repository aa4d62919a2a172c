package models

import "time"

// Reallocation is an append-only audit row, one per ticket move.
type Reallocation struct {
	ID             int64     `json:"id"`
	TicketID       int64     `json:"ticket_id"`
	OriginalTripID int64     `json:"original_trip_id"`
	NewTripID      int64     `json:"new_trip_id"`
	Reason         string    `json:"reason"`
	ReallocatedBy  string    `json:"reallocated_by"`
	CreatedAt      time.Time `json:"created_at"`
}
