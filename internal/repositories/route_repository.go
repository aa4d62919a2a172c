package repositories

import (
	"database/sql"
	"errors"

	intconfig "safareasy/internal/config"
	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
)

// RouteRepository is a read-only lookup; the route registry owns the data.
type RouteRepository struct {
	DB *sql.DB
}

func (r RouteRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r RouteRepository) GetByID(id int64) (models.Route, error) {
	var rt models.Route
	err := r.db().QueryRow(`
		SELECT id, name, sacco_id, distance_km, base_fare_cents, status, created_at
		FROM routes WHERE id=? LIMIT 1`, id,
	).Scan(&rt.ID, &rt.Name, &rt.SaccoID, &rt.DistanceKM, &rt.BaseFareCents, &rt.Status, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rt, domain.NotFoundError{Resource: "route"}
	}
	return rt, err
}
