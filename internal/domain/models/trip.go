package models

import (
	"time"

	"safareasy/internal/domain"
)

// Trip is one scheduled run of a vehicle along a route.
type Trip struct {
	ID           int64             `json:"id"`
	VehicleID    int64             `json:"vehicle_id"`
	RouteID      int64             `json:"route_id"`
	DriverID     int64             `json:"driver_id"`
	OwnerID      int64             `json:"owner_id"`
	SaccoID      int64             `json:"sacco_id"`
	Class        domain.TripClass  `json:"class"`
	SeatCapacity int               `json:"seat_capacity"`
	Status       domain.TripStatus `json:"status"`
	RegisteredAt time.Time         `json:"registered_at"`
	DepartedAt   *time.Time        `json:"departed_at,omitempty"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// TripLoad pairs a trip with the number of live tickets bound to it, used by
// substitute selection to check spare seats.
type TripLoad struct {
	Trip
	ActiveTickets int `json:"active_tickets"`
}

func (t TripLoad) HasSpareSeats() bool {
	return t.ActiveTickets < t.SeatCapacity
}
