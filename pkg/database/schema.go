package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS hotels (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		max_rooms INTEGER NOT NULL DEFAULT 0,
		room_count INTEGER NOT NULL DEFAULT 0 CHECK (room_count >= 0),
		gst_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		service_charge_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'INR',
		staff_key_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id UUID PRIMARY KEY,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		number TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		stays JSONB NOT NULL DEFAULT '[]',
		out_of_order JSONB NOT NULL DEFAULT '[]',
		current_stay_id TEXT,
		guest_name TEXT,
		check_in_date DATE,
		check_out_date DATE,
		last_checkout_date DATE,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (hotel_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS active_stays (
		stay_id TEXT PRIMARY KEY,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		room_id UUID NOT NULL,
		room_number TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS checked_out_stays (
		id UUID PRIMARY KEY,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		room_id UUID NOT NULL,
		room_number TEXT NOT NULL,
		stay_id TEXT NOT NULL UNIQUE,
		guest_name TEXT NOT NULL,
		guest_number TEXT,
		check_in DATE NOT NULL,
		check_out DATE NOT NULL,
		checked_out_at TIMESTAMPTZ NOT NULL,
		billed_to_company BOOLEAN NOT NULL DEFAULT FALSE,
		company_name TEXT,
		group_master_stay_id TEXT,
		forced BOOLEAN NOT NULL DEFAULT FALSE,
		final_bill JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_checked_out_stays_hotel
		ON checked_out_stays (hotel_id, checked_out_at DESC)`,
	`CREATE TABLE IF NOT EXISTS service_tasks (
		id UUID PRIMARY KEY,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		room_id UUID NOT NULL,
		room_number TEXT NOT NULL,
		stay_id TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		requested_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS charge_logs (
		id UUID PRIMARY KEY,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		room_id UUID NOT NULL,
		stay_id TEXT NOT NULL,
		service TEXT NOT NULL,
		quantity DOUBLE PRECISION NOT NULL DEFAULT 1,
		price DOUBLE PRECISION NOT NULL,
		note TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_charge_logs_stay ON charge_logs (hotel_id, stay_id)`,
}

// Migrate creates the tables if they are missing. It is safe to run on
// every start.
func Migrate(ctx context.Context, db Querier) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i, err)
		}
	}
	return nil
}
