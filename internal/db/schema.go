package db

import "database/sql"

// EnsureSchema creates the tables this service owns. Statements are idempotent
// so the server can bootstrap an empty database on first start.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(191) NOT NULL,
			username VARCHAR(191) NOT NULL UNIQUE,
			email VARCHAR(191) NOT NULL UNIQUE,
			phone VARCHAR(32) NOT NULL DEFAULT '',
			password_hash VARCHAR(191) NOT NULL,
			role VARCHAR(32) NOT NULL DEFAULT 'operator',
			status VARCHAR(32) NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(191) NOT NULL UNIQUE,
			sacco_id BIGINT NOT NULL,
			distance_km DOUBLE NOT NULL DEFAULT 0,
			base_fare_cents BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(32) NOT NULL DEFAULT 'draft',
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trips (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_id BIGINT NOT NULL,
			route_id BIGINT NOT NULL,
			driver_id BIGINT NOT NULL,
			owner_id BIGINT NOT NULL,
			sacco_id BIGINT NOT NULL,
			class VARCHAR(32) NOT NULL,
			seat_capacity INT NOT NULL DEFAULT 14,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			registered_at DATETIME NOT NULL,
			departed_at DATETIME NULL,
			completed_at DATETIME NULL,
			INDEX idx_trips_route_class (route_id, class, status)
		)`,
		`CREATE TABLE IF NOT EXISTS queue_entries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			trip_id BIGINT NOT NULL UNIQUE,
			route_id BIGINT NOT NULL,
			class VARCHAR(32) NOT NULL,
			position INT NOT NULL,
			inserted_at DATETIME NOT NULL,
			UNIQUE KEY uq_queue_partition_position (route_id, class, position)
		)`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			passenger_id BIGINT NOT NULL,
			trip_id BIGINT NOT NULL,
			route_id BIGINT NOT NULL,
			class VARCHAR(32) NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'registered',
			qr_code VARCHAR(191) NOT NULL UNIQUE,
			short_code VARCHAR(32) NOT NULL UNIQUE,
			payment_id BIGINT NULL,
			discount_id BIGINT NULL,
			needs_attention TINYINT(1) NOT NULL DEFAULT 0,
			registered_at DATETIME NOT NULL,
			INDEX idx_tickets_trip (trip_id, status)
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ticket_id BIGINT NOT NULL,
			trip_id BIGINT NOT NULL,
			passenger_id BIGINT NOT NULL,
			amount_cents BIGINT NOT NULL,
			method VARCHAR(32) NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			transaction_ref VARCHAR(191) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			INDEX idx_payments_trip (trip_id, status)
		)`,
		`CREATE TABLE IF NOT EXISTS reallocations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ticket_id BIGINT NOT NULL,
			original_trip_id BIGINT NOT NULL,
			new_trip_id BIGINT NOT NULL,
			reason VARCHAR(255) NOT NULL,
			reallocated_by VARCHAR(64) NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_reallocations_ticket (ticket_id)
		)`,
		`CREATE TABLE IF NOT EXISTS payrolls (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			trip_id BIGINT NOT NULL UNIQUE,
			owner_id BIGINT NOT NULL,
			driver_id BIGINT NOT NULL,
			sacco_id BIGINT NOT NULL,
			total_revenue_cents BIGINT NOT NULL,
			system_fee_cents BIGINT NOT NULL,
			sacco_fee_cents BIGINT NOT NULL,
			driver_cut_cents BIGINT NOT NULL,
			owner_cut_cents BIGINT NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			resolution_details TEXT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			payload JSON NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_events_name (name)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
