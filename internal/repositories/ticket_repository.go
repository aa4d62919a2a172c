package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "safareasy/internal/config"
	intdb "safareasy/internal/db"
	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
)

type TicketRepository struct {
	DB *sql.DB
}

func (r TicketRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const ticketColumns = `id, passenger_id, trip_id, route_id, class, status,
	qr_code, short_code, payment_id, discount_id, needs_attention, registered_at`

func scanTicket(row interface{ Scan(...any) error }) (models.Ticket, error) {
	var t models.Ticket
	var paymentID, discountID sql.NullInt64
	err := row.Scan(
		&t.ID, &t.PassengerID, &t.TripID, &t.RouteID, &t.Class, &t.Status,
		&t.QRCode, &t.ShortCode, &paymentID, &discountID, &t.NeedsAttention, &t.RegisteredAt,
	)
	if err != nil {
		return t, err
	}
	if paymentID.Valid {
		t.PaymentID = &paymentID.Int64
	}
	if discountID.Valid {
		t.DiscountID = &discountID.Int64
	}
	return t, nil
}

func (r TicketRepository) Create(t models.Ticket) (models.Ticket, error) {
	if t.RegisteredAt.IsZero() {
		t.RegisteredAt = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = domain.TicketRegistered
	}
	res, err := r.db().Exec(`
		INSERT INTO tickets (passenger_id, trip_id, route_id, class, status,
			qr_code, short_code, payment_id, discount_id, needs_attention, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.PassengerID, t.TripID, t.RouteID, t.Class, t.Status,
		t.QRCode, t.ShortCode, nullInt(t.PaymentID), nullInt(t.DiscountID),
		t.NeedsAttention, t.RegisteredAt,
	)
	if err != nil {
		return t, err
	}
	t.ID, _ = res.LastInsertId()
	return t, nil
}

func (r TicketRepository) GetByID(id int64) (models.Ticket, error) {
	row := r.db().QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE id=? LIMIT 1`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, domain.NotFoundError{Resource: "ticket"}
	}
	return t, err
}

func (r TicketRepository) GetByQRCode(qr string) (models.Ticket, error) {
	row := r.db().QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE qr_code=? LIMIT 1`, qr)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, domain.NotFoundError{Resource: "ticket"}
	}
	return t, err
}

// ListReallocatable returns the live (registered/paid) tickets bound to a trip.
func (r TicketRepository) ListReallocatable(tripID int64) ([]models.Ticket, error) {
	rows, err := r.db().Query(`
		SELECT `+ticketColumns+` FROM tickets
		WHERE trip_id=? AND status IN ('registered','paid')
		ORDER BY id ASC`, tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Rebind moves the ticket onto a new trip and appends the audit row in one
// transaction. The guarded UPDATE keeps the pair atomic per ticket: if the
// ticket moved concurrently, nothing is written.
func (r TicketRepository) Rebind(ticketID, fromTripID int64, audit models.Reallocation) (models.Reallocation, error) {
	err := intdb.WithTx(r.db(), func(tx *sql.Tx) error {
		key := fmt.Sprintf("ticket:%d", ticketID)
		if err := intdb.AcquireNamedLock(tx, key, 5); err != nil {
			return domain.InternalError{Msg: "ticket busy", Err: err}
		}
		defer intdb.ReleaseNamedLock(tx, key)

		res, err := tx.Exec(`
			UPDATE tickets SET trip_id=?, needs_attention=0
			WHERE id=? AND trip_id=?`,
			audit.NewTripID, ticketID, fromTripID,
		)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ConflictError{Resource: "ticket", Msg: "ticket moved concurrently"}
		}

		if audit.CreatedAt.IsZero() {
			audit.CreatedAt = time.Now().UTC()
		}
		ins, err := tx.Exec(`
			INSERT INTO reallocations (ticket_id, original_trip_id, new_trip_id, reason, reallocated_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			audit.TicketID, audit.OriginalTripID, audit.NewTripID, audit.Reason, audit.ReallocatedBy, audit.CreatedAt,
		)
		if err != nil {
			return err
		}
		audit.ID, _ = ins.LastInsertId()
		return nil
	})
	return audit, err
}

// MarkNeedsAttention flags a ticket stranded on a canceled trip.
func (r TicketRepository) MarkNeedsAttention(ticketID int64) error {
	_, err := r.db().Exec(`UPDATE tickets SET needs_attention=1 WHERE id=?`, ticketID)
	return err
}

// UpdateStatus applies a guarded status transition.
func (r TicketRepository) UpdateStatus(id int64, from, to domain.TicketStatus) error {
	res, err := r.db().Exec(`UPDATE tickets SET status=? WHERE id=? AND status=?`, to, id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ConflictError{Resource: "ticket", Msg: "status changed concurrently"}
	}
	return nil
}

// SetPaymentID links the ticket to its settled payment record.
func (r TicketRepository) SetPaymentID(ticketID, paymentID int64) error {
	_, err := r.db().Exec(`UPDATE tickets SET payment_id=? WHERE id=?`, paymentID, ticketID)
	return err
}

func nullInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
