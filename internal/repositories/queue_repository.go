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

// QueueRepository owns the queue_entries table. Enqueue and dequeue serialize
// per (route, class) partition with a MySQL named lock so the read-max-then-
// insert and the shift-down compaction never interleave on the same partition.
type QueueRepository struct {
	DB *sql.DB
}

func (r QueueRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func partitionLockKey(routeID int64, class domain.TripClass) string {
	return fmt.Sprintf("queue:%d:%s", routeID, class)
}

// Enqueue appends the trip to the tail of its partition and returns the new
// entry. A trip already holding a slot is rejected with a conflict.
func (r QueueRepository) Enqueue(tripID, routeID int64, class domain.TripClass) (models.QueueEntry, error) {
	var entry models.QueueEntry

	err := intdb.WithTx(r.db(), func(tx *sql.Tx) error {
		key := partitionLockKey(routeID, class)
		if err := intdb.AcquireNamedLock(tx, key, 5); err != nil {
			return domain.InternalError{Msg: "queue partition busy", Err: err}
		}
		defer intdb.ReleaseNamedLock(tx, key)

		var existingID int64
		err := tx.QueryRow(`SELECT id FROM queue_entries WHERE trip_id=? LIMIT 1`, tripID).Scan(&existingID)
		if err == nil {
			return domain.ConflictError{Resource: "queue entry", Msg: "trip already queued"}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		var maxPos sql.NullInt64
		if err := tx.QueryRow(`
			SELECT MAX(position) FROM queue_entries WHERE route_id=? AND class=?`,
			routeID, class,
		).Scan(&maxPos); err != nil {
			return err
		}

		now := time.Now().UTC()
		pos := int(maxPos.Int64) + 1

		res, err := tx.Exec(`
			INSERT INTO queue_entries (trip_id, route_id, class, position, inserted_at)
			VALUES (?, ?, ?, ?, ?)`,
			tripID, routeID, class, pos, now,
		)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()

		entry = models.QueueEntry{
			ID:         id,
			TripID:     tripID,
			RouteID:    routeID,
			Class:      class,
			Position:   pos,
			InsertedAt: now,
		}
		return nil
	})

	return entry, err
}

// Dequeue removes the entry and compacts the remaining positions of its
// partition back to a contiguous 1..N, all in one transaction.
func (r QueueRepository) Dequeue(entryID int64) (models.QueueEntry, error) {
	var entry models.QueueEntry

	err := intdb.WithTx(r.db(), func(tx *sql.Tx) error {
		// First read only identifies the partition for the lock key; route and
		// class are immutable on an entry so a stale snapshot is fine here.
		var routeID int64
		var class domain.TripClass
		err := tx.QueryRow(`
			SELECT route_id, class FROM queue_entries WHERE id=? LIMIT 1`, entryID,
		).Scan(&routeID, &class)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "queue entry"}
		}
		if err != nil {
			return err
		}

		key := partitionLockKey(routeID, class)
		if err := intdb.AcquireNamedLock(tx, key, 5); err != nil {
			return domain.InternalError{Msg: "queue partition busy", Err: err}
		}
		defer intdb.ReleaseNamedLock(tx, key)

		// The position must be re-read under the lock: a concurrent dequeue on
		// the same partition may have compacted this entry downward between the
		// first read and lock acquisition. FOR UPDATE bypasses the transaction
		// snapshot and sees the latest committed row.
		err = tx.QueryRow(`
			SELECT id, trip_id, route_id, class, position, inserted_at
			FROM queue_entries WHERE id=? LIMIT 1 FOR UPDATE`, entryID,
		).Scan(&entry.ID, &entry.TripID, &entry.RouteID, &entry.Class, &entry.Position, &entry.InsertedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "queue entry"}
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM queue_entries WHERE id=?`, entry.ID); err != nil {
			return err
		}

		// Shift-down compaction. ORDER BY keeps the unique (route, class,
		// position) key satisfied at every intermediate row update.
		_, err = tx.Exec(`
			UPDATE queue_entries SET position = position - 1
			WHERE route_id=? AND class=? AND position > ?
			ORDER BY position ASC`,
			entry.RouteID, entry.Class, entry.Position,
		)
		return err
	})

	return entry, err
}

// DequeueByTripID is the best-effort variant used by the trip lifecycle:
// cancel/complete retract a queue slot if one exists, and a missing slot is
// not an error.
func (r QueueRepository) DequeueByTripID(tripID int64) (models.QueueEntry, bool, error) {
	var entryID int64
	err := r.db().QueryRow(`SELECT id FROM queue_entries WHERE trip_id=? LIMIT 1`, tripID).Scan(&entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueueEntry{}, false, nil
	}
	if err != nil {
		return models.QueueEntry{}, false, err
	}

	entry, err := r.Dequeue(entryID)
	if err != nil {
		if domain.IsNotFound(err) {
			// Lost a race with another dequeue; treat as already gone.
			return models.QueueEntry{}, false, nil
		}
		return models.QueueEntry{}, false, err
	}
	return entry, true, nil
}

func (r QueueRepository) GetByTripID(tripID int64) (models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.db().QueryRow(`
		SELECT id, trip_id, route_id, class, position, inserted_at
		FROM queue_entries WHERE trip_id=? LIMIT 1`, tripID,
	).Scan(&entry.ID, &entry.TripID, &entry.RouteID, &entry.Class, &entry.Position, &entry.InsertedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueueEntry{}, domain.NotFoundError{Resource: "queue entry"}
	}
	return entry, err
}

// ListByRoute returns every entry on the route ordered by class then position.
func (r QueueRepository) ListByRoute(routeID int64) ([]models.QueueEntry, error) {
	rows, err := r.db().Query(`
		SELECT id, trip_id, route_id, class, position, inserted_at
		FROM queue_entries
		WHERE route_id=?
		ORDER BY class ASC, position ASC`, routeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.QueueEntry{}
	for rows.Next() {
		var e models.QueueEntry
		if err := rows.Scan(&e.ID, &e.TripID, &e.RouteID, &e.Class, &e.Position, &e.InsertedAt); err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
