package models

import (
	"time"

	"safareasy/internal/domain"
)

// QueueEntry is a trip's claim to a dispatch slot. Positions within one
// (route, class) partition are always contiguous starting at 1.
type QueueEntry struct {
	ID         int64            `json:"id"`
	TripID     int64            `json:"trip_id"`
	RouteID    int64            `json:"route_id"`
	Class      domain.TripClass `json:"class"`
	Position   int              `json:"position"`
	InsertedAt time.Time        `json:"inserted_at"`
}
