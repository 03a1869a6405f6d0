package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createPlatformTable,
		createEventsTable,
		createTicketsTable,
		createTicketsOwnerIndex,
		createTicketsEventIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createPlatformTable = `
CREATE TABLE IF NOT EXISTS platform (
    id SMALLINT PRIMARY KEY DEFAULT 1,
    admin VARCHAR(255) NOT NULL,
    fee_bps BIGINT NOT NULL,
    revenue BIGINT NOT NULL DEFAULT 0,
    organizers JSONB NOT NULL DEFAULT '{}'::jsonb,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (id = 1),
    CHECK (fee_bps BETWEEN 0 AND 10000),
    CHECK (revenue >= 0)
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id UUID PRIMARY KEY,
    organizer VARCHAR(255) NOT NULL,
    document JSONB NOT NULL,
    version BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id UUID PRIMARY KEY,
    event_id UUID NOT NULL REFERENCES events(id),
    ticket_type VARCHAR(255) NOT NULL,
    section VARCHAR(255) NOT NULL,
    owner VARCHAR(255) NOT NULL,
    purchase_price BIGINT NOT NULL,
    purchased_at TIMESTAMPTZ NOT NULL,
    used BOOLEAN NOT NULL DEFAULT FALSE,
    access_token VARCHAR(64) NOT NULL UNIQUE,

    CHECK (purchase_price >= 0)
);`

const createTicketsOwnerIndex = `
CREATE INDEX IF NOT EXISTS tickets_owner_idx ON tickets (owner, purchased_at DESC);`

const createTicketsEventIndex = `
CREATE INDEX IF NOT EXISTS tickets_event_idx ON tickets (event_id);`
