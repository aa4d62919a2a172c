package repositories

import (
	"database/sql"
	"time"

	intconfig "safareasy/internal/config"
	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r PaymentRepository) Create(p models.Payment) (models.Payment, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Status == "" {
		p.Status = domain.PaymentPending
	}
	res, err := r.db().Exec(`
		INSERT INTO payments (ticket_id, trip_id, passenger_id, amount_cents, method, status, transaction_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.TicketID, p.TripID, p.PassengerID, p.AmountCents, p.Method, p.Status, p.TransactionRef, p.CreatedAt,
	)
	if err != nil {
		return p, err
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

// SumCompletedByTrip aggregates settled passenger money for one trip, in
// cents. This is the only payment data settlement ever reads.
func (r PaymentRepository) SumCompletedByTrip(tripID int64) (int64, error) {
	var total sql.NullInt64
	err := r.db().QueryRow(`
		SELECT SUM(amount_cents) FROM payments
		WHERE trip_id=? AND status='completed'`, tripID,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
