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

type PayrollRepository struct {
	DB *sql.DB
}

func (r PayrollRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const payrollColumns = `id, trip_id, owner_id, driver_id, sacco_id,
	total_revenue_cents, system_fee_cents, sacco_fee_cents, driver_cut_cents, owner_cut_cents,
	status, COALESCE(resolution_details,''), created_at, updated_at`

func scanPayroll(row interface{ Scan(...any) error }) (models.Payroll, error) {
	var p models.Payroll
	err := row.Scan(
		&p.ID, &p.TripID, &p.OwnerID, &p.DriverID, &p.SaccoID,
		&p.TotalRevenueCents, &p.SystemFeeCents, &p.SaccoFeeCents, &p.DriverCutCents, &p.OwnerCutCents,
		&p.Status, &p.ResolutionDetails, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create persists the settlement record. The trip_id named lock plus the
// unique constraint make processing idempotent: a second attempt for the same
// trip fails with a conflict and alters nothing.
func (r PayrollRepository) Create(p models.Payroll) (models.Payroll, error) {
	err := intdb.WithTx(r.db(), func(tx *sql.Tx) error {
		key := fmt.Sprintf("payroll:%d", p.TripID)
		if err := intdb.AcquireNamedLock(tx, key, 5); err != nil {
			return domain.InternalError{Msg: "payroll busy", Err: err}
		}
		defer intdb.ReleaseNamedLock(tx, key)

		var existingID int64
		err := tx.QueryRow(`SELECT id FROM payrolls WHERE trip_id=? LIMIT 1`, p.TripID).Scan(&existingID)
		if err == nil {
			return domain.ConflictError{Resource: "payroll", Msg: "already processed for this trip"}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		now := time.Now().UTC()
		p.CreatedAt = now
		p.UpdatedAt = now

		res, err := tx.Exec(`
			INSERT INTO payrolls (trip_id, owner_id, driver_id, sacco_id,
				total_revenue_cents, system_fee_cents, sacco_fee_cents, driver_cut_cents, owner_cut_cents,
				status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.TripID, p.OwnerID, p.DriverID, p.SaccoID,
			p.TotalRevenueCents, p.SystemFeeCents, p.SaccoFeeCents, p.DriverCutCents, p.OwnerCutCents,
			p.Status, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return err
		}
		p.ID, _ = res.LastInsertId()
		return nil
	})
	return p, err
}

func (r PayrollRepository) GetByID(id int64) (models.Payroll, error) {
	row := r.db().QueryRow(`SELECT `+payrollColumns+` FROM payrolls WHERE id=? LIMIT 1`, id)
	p, err := scanPayroll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.NotFoundError{Resource: "payroll"}
	}
	return p, err
}

func (r PayrollRepository) GetByTripID(tripID int64) (models.Payroll, error) {
	row := r.db().QueryRow(`SELECT `+payrollColumns+` FROM payrolls WHERE trip_id=? LIMIT 1`, tripID)
	p, err := scanPayroll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.NotFoundError{Resource: "payroll"}
	}
	return p, err
}

// MarkDisputed moves a completed payroll into dispute.
func (r PayrollRepository) MarkDisputed(id int64) error {
	return r.transition(id, domain.PayrollCompleted, domain.PayrollDisputed, "")
}

// ResolveDispute closes a disputed payroll, recording the resolution. The fee
// fields are never touched here; a real correction means voiding and
// reprocessing, not in-place mutation.
func (r PayrollRepository) ResolveDispute(id int64, details string) error {
	return r.transition(id, domain.PayrollDisputed, domain.PayrollCompleted, details)
}

func (r PayrollRepository) transition(id int64, from, to domain.PayrollStatus, details string) error {
	set := `status=?, updated_at=?`
	args := []any{to, time.Now().UTC()}
	if details != "" {
		set += `, resolution_details=?`
		args = append(args, details)
	}
	args = append(args, id, from)

	res, err := r.db().Exec(`UPDATE payrolls SET `+set+` WHERE id=? AND status=?`, args...)
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
			Resource: "payroll",
			Msg:      "status is " + string(current.Status) + ", expected " + string(from),
		}
	}
	return nil
}

func (r PayrollRepository) ListByOwner(ownerID int64) ([]models.Payroll, error) {
	return r.list(`owner_id`, ownerID)
}

func (r PayrollRepository) ListByDriver(driverID int64) ([]models.Payroll, error) {
	return r.list(`driver_id`, driverID)
}

func (r PayrollRepository) list(column string, id int64) ([]models.Payroll, error) {
	rows, err := r.db().Query(`
		SELECT `+payrollColumns+` FROM payrolls WHERE `+column+`=? ORDER BY id DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
