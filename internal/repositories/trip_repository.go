package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "safareasy/internal/config"
	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, vehicle_id, route_id, driver_id, owner_id, sacco_id,
	class, seat_capacity, status, registered_at, departed_at, completed_at`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	var departedAt, completedAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.VehicleID, &t.RouteID, &t.DriverID, &t.OwnerID, &t.SaccoID,
		&t.Class, &t.SeatCapacity, &t.Status, &t.RegisteredAt, &departedAt, &completedAt,
	)
	if err != nil {
		return t, err
	}
	if departedAt.Valid {
		t.DepartedAt = &departedAt.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return t, nil
}

func (r TripRepository) Create(t models.Trip) (models.Trip, error) {
	if t.RegisteredAt.IsZero() {
		t.RegisteredAt = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = domain.TripPending
	}
	res, err := r.db().Exec(`
		INSERT INTO trips (vehicle_id, route_id, driver_id, owner_id, sacco_id,
			class, seat_capacity, status, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.VehicleID, t.RouteID, t.DriverID, t.OwnerID, t.SaccoID,
		t.Class, t.SeatCapacity, t.Status, t.RegisteredAt,
	)
	if err != nil {
		return t, err
	}
	t.ID, _ = res.LastInsertId()
	return t, nil
}

func (r TripRepository) GetByID(id int64) (models.Trip, error) {
	row := r.db().QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id=? LIMIT 1`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, domain.NotFoundError{Resource: "trip"}
	}
	return t, err
}

// UpdateStatus performs a guarded transition: the row is only touched when it
// is still in the expected state, which keeps the lifecycle monotonic under
// concurrent writers.
func (r TripRepository) UpdateStatus(id int64, from, to domain.TripStatus) error {
	set := `status=?`
	args := []any{to}
	now := time.Now().UTC()
	switch to {
	case domain.TripActive:
		set += `, departed_at=?`
		args = append(args, now)
	case domain.TripCompleted:
		set += `, completed_at=?`
		args = append(args, now)
	}
	args = append(args, id, from)

	res, err := r.db().Exec(`UPDATE trips SET `+set+` WHERE id=? AND status=?`, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		current, getErr := r.GetByID(id)
		if getErr != nil {
			return getErr
		}
		return domain.ConflictError{
			Resource: "trip",
			Msg:      "status is " + string(current.Status) + ", expected " + string(from),
		}
	}
	return nil
}

// GetLoad returns the trip together with its live ticket count.
func (r TripRepository) GetLoad(id int64) (models.TripLoad, error) {
	row := r.db().QueryRow(`
		SELECT t.id, t.vehicle_id, t.route_id, t.driver_id, t.owner_id, t.sacco_id,
		       t.class, t.seat_capacity, t.status, t.registered_at, t.departed_at, t.completed_at,
		       (SELECT COUNT(*) FROM tickets k
		        WHERE k.trip_id = t.id AND k.status IN ('registered','paid')) AS active_tickets
		FROM trips t WHERE t.id=? LIMIT 1`, id,
	)

	var load models.TripLoad
	var departedAt, completedAt sql.NullTime
	err := row.Scan(
		&load.ID, &load.VehicleID, &load.RouteID, &load.DriverID, &load.OwnerID, &load.SaccoID,
		&load.Class, &load.SeatCapacity, &load.Status, &load.RegisteredAt, &departedAt, &completedAt,
		&load.ActiveTickets,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return load, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return load, err
	}
	if departedAt.Valid {
		load.DepartedAt = &departedAt.Time
	}
	if completedAt.Valid {
		load.CompletedAt = &completedAt.Time
	}
	return load, nil
}

// SubstituteCandidate is a queued trip eligible to absorb reallocated tickets.
type SubstituteCandidate struct {
	models.TripLoad
	Position int `json:"position"`
}

// SubstituteCandidates lists queued pending/active trips of the partition in
// dispatch order: lowest position first, earliest registration on ties.
func (r TripRepository) SubstituteCandidates(routeID int64, class domain.TripClass) ([]SubstituteCandidate, error) {
	rows, err := r.db().Query(`
		SELECT t.id, t.vehicle_id, t.route_id, t.driver_id, t.owner_id, t.sacco_id,
		       t.class, t.seat_capacity, t.status, t.registered_at, t.departed_at, t.completed_at,
		       (SELECT COUNT(*) FROM tickets k
		        WHERE k.trip_id = t.id AND k.status IN ('registered','paid')) AS active_tickets,
		       q.position
		FROM queue_entries q
		JOIN trips t ON t.id = q.trip_id
		WHERE q.route_id=? AND q.class=? AND t.status IN ('pending','active')
		ORDER BY q.position ASC, t.registered_at ASC`,
		routeID, class,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SubstituteCandidate{}
	for rows.Next() {
		var c SubstituteCandidate
		var departedAt, completedAt sql.NullTime
		if err := rows.Scan(
			&c.ID, &c.VehicleID, &c.RouteID, &c.DriverID, &c.OwnerID, &c.SaccoID,
			&c.Class, &c.SeatCapacity, &c.Status, &c.RegisteredAt, &departedAt, &completedAt,
			&c.ActiveTickets, &c.Position,
		); err != nil {
			return out, err
		}
		if departedAt.Valid {
			c.DepartedAt = &departedAt.Time
		}
		if completedAt.Valid {
			c.CompletedAt = &completedAt.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
