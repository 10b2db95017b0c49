package migrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/salon-booking/pkg/sqlbuilder"
	"github.com/m04kA/salon-booking/pkg/txmanager"
)

var (
	ErrUnknownDriver = errors.New("migrations: unknown driver")
	ErrApply         = errors.New("migrations: failed to apply schema")
)

// Даты и время хранятся в TEXT (YYYY-MM-DD, HH:MM) в обоих диалектах
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		price REAL NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		role TEXT,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff_services (
		staff_id INTEGER NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		service_id INTEGER NOT NULL REFERENCES services(id) ON DELETE CASCADE,
		PRIMARY KEY (staff_id, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS staff_hours (
		staff_id INTEGER NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		PRIMARY KEY (staff_id, weekday)
	)`,
	`CREATE TABLE IF NOT EXISTS business_hours (
		weekday INTEGER PRIMARY KEY CHECK (weekday BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blocked_dates (
		blocked_date TEXT PRIMARY KEY,
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		salon_name TEXT NOT NULL DEFAULT '',
		salon_phone TEXT NOT NULL DEFAULT '',
		slot_step_minutes INTEGER NOT NULL,
		advance_booking_days INTEGER NOT NULL,
		min_notice_minutes INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		notes TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		staff_id INTEGER REFERENCES staff(id) ON DELETE SET NULL,
		client_id INTEGER REFERENCES clients(id) ON DELETE SET NULL,
		booking_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL,
		client_name TEXT NOT NULL,
		client_phone TEXT NOT NULL,
		notes TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS booking_services (
		booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		service_id INTEGER NOT NULL REFERENCES services(id),
		position INTEGER NOT NULL,
		PRIMARY KEY (booking_id, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS gallery_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_name TEXT NOT NULL,
		thumb_name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		caption TEXT,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(booking_date, staff_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_services_service ON booking_services(service_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff_services (
		staff_id BIGINT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		service_id BIGINT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
		PRIMARY KEY (staff_id, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS staff_hours (
		staff_id BIGINT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		PRIMARY KEY (staff_id, weekday)
	)`,
	`CREATE TABLE IF NOT EXISTS business_hours (
		weekday SMALLINT PRIMARY KEY CHECK (weekday BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blocked_dates (
		blocked_date TEXT PRIMARY KEY,
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		salon_name TEXT NOT NULL DEFAULT '',
		salon_phone TEXT NOT NULL DEFAULT '',
		slot_step_minutes INTEGER NOT NULL,
		advance_booking_days INTEGER NOT NULL,
		min_notice_minutes INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		staff_id BIGINT REFERENCES staff(id) ON DELETE SET NULL,
		client_id BIGINT REFERENCES clients(id) ON DELETE SET NULL,
		booking_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL,
		client_name TEXT NOT NULL,
		client_phone TEXT NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS booking_services (
		booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		service_id BIGINT NOT NULL REFERENCES services(id),
		position INTEGER NOT NULL,
		PRIMARY KEY (booking_id, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS gallery_items (
		id BIGSERIAL PRIMARY KEY,
		file_name TEXT NOT NULL,
		thumb_name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		caption TEXT,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(booking_date, staff_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_services_service ON booking_services(service_id)`,
}

// Apply создает таблицы и индексы для выбранного драйвера. Повторный вызов безопасен.
func Apply(ctx context.Context, db txmanager.DBExecutor, driver string) error {
	var schema []string
	switch driver {
	case sqlbuilder.DriverSQLite:
		schema = sqliteSchema
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("%w: enable foreign keys: %v", ErrApply, err)
		}
	case sqlbuilder.DriverPostgres:
		schema = postgresSchema
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: statement %d: %v", ErrApply, i+1, err)
		}
	}
	return nil
}
