package models

import "time"

// Route is read-only from this service's point of view; the route registry
// owns it.
type Route struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	SaccoID       int64     `json:"sacco_id"`
	DistanceKM    float64   `json:"distance_km"`
	BaseFareCents int64     `json:"base_fare_cents"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
