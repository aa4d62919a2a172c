package db

import (
	"database/sql"
	"errors"
)

// AcquireNamedLock takes a MySQL named lock inside tx. Locks are scoped to the
// connection, so the lock is held for the lifetime of the transaction and must
// be released on the same tx.
func AcquireNamedLock(tx *sql.Tx, key string, timeoutSec int) error {
	if tx == nil || key == "" {
		return errors.New("AcquireNamedLock: invalid args")
	}
	var got sql.NullInt64
	if err := tx.QueryRow(`SELECT GET_LOCK(?, ?)`, key, timeoutSec).Scan(&got); err != nil {
		return err
	}
	if !got.Valid || got.Int64 != 1 {
		return errors.New("cannot acquire lock " + key)
	}
	return nil
}

func ReleaseNamedLock(tx *sql.Tx, key string) {
	if tx == nil || key == "" {
		return
	}
	_, _ = tx.Exec(`SELECT RELEASE_LOCK(?)`, key)
}
