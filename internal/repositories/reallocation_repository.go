package repositories

import (
	"database/sql"

	intconfig "safareasy/internal/config"
	"safareasy/internal/domain/models"
)

type ReallocationRepository struct {
	DB *sql.DB
}

func (r ReallocationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListByTicket returns the audit trail for one ticket, oldest first.
func (r ReallocationRepository) ListByTicket(ticketID int64) ([]models.Reallocation, error) {
	rows, err := r.db().Query(`
		SELECT id, ticket_id, original_trip_id, new_trip_id, reason, reallocated_by, created_at
		FROM reallocations
		WHERE ticket_id=?
		ORDER BY id ASC`, ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Reallocation{}
	for rows.Next() {
		var rec models.Reallocation
		if err := rows.Scan(
			&rec.ID, &rec.TicketID, &rec.OriginalTripID, &rec.NewTripID,
			&rec.Reason, &rec.ReallocatedBy, &rec.CreatedAt,
		); err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
