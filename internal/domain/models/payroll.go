package models

import (
	"time"

	"safareasy/internal/domain"
)

// Payroll is the settlement record for one completed trip. All amounts are
// integer cents. Fee fields are frozen once written; dispute resolution only
// touches status and resolution details.
type Payroll struct {
	ID                int64                `json:"id"`
	TripID            int64                `json:"trip_id"`
	OwnerID           int64                `json:"owner_id"`
	DriverID          int64                `json:"driver_id"`
	SaccoID           int64                `json:"sacco_id"`
	TotalRevenueCents int64                `json:"total_revenue_cents"`
	SystemFeeCents    int64                `json:"system_fee_cents"`
	SaccoFeeCents     int64                `json:"sacco_fee_cents"`
	DriverCutCents    int64                `json:"driver_cut_cents"`
	OwnerCutCents     int64                `json:"owner_cut_cents"`
	Status            domain.PayrollStatus `json:"status"`
	ResolutionDetails string               `json:"resolution_details,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// Balanced checks the conservation invariant.
func (p Payroll) Balanced() bool {
	sum := p.SystemFeeCents + p.SaccoFeeCents + p.DriverCutCents + p.OwnerCutCents
	diff := p.TotalRevenueCents - sum
	if diff < 0 {
		diff = -diff
	}
	return diff <= domain.SettlementEpsilonCents
}
