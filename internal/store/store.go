// Package store provides SQLite-backed persistence for all ledger records.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS expenses (
	id             TEXT PRIMARY KEY,
	date           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	amount         REAL NOT NULL DEFAULT 0,
	category       TEXT NOT NULL DEFAULT '',
	payment_method TEXT NOT NULL DEFAULT '',
	tax_deductible INTEGER NOT NULL DEFAULT 0,
	client         TEXT NOT NULL DEFAULT '',
	notes          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS work_entries (
	id          TEXT PRIMARY KEY,
	date        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	hours       REAL NOT NULL DEFAULT 0,
	hourly_rate REAL NOT NULL DEFAULT 0,
	amount      REAL NOT NULL DEFAULT 0,
	client      TEXT NOT NULL DEFAULT '',
	invoice_id  TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS travel_entries (
	id           TEXT PRIMARY KEY,
	date         TEXT NOT NULL,
	from_address TEXT NOT NULL DEFAULT '',
	to_address   TEXT NOT NULL DEFAULT '',
	kilometers   REAL NOT NULL DEFAULT 0,
	rate_per_km  REAL NOT NULL DEFAULT 0,
	amount       REAL NOT NULL DEFAULT 0,
	client       TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS time_entries (
	id               TEXT PRIMARY KEY,
	date             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	duration_minutes REAL NOT NULL DEFAULT 0,
	hourly_rate      REAL NOT NULL DEFAULT 0,
	amount           REAL NOT NULL DEFAULT 0,
	client           TEXT NOT NULL DEFAULT '',
	invoice_item     TEXT NOT NULL DEFAULT '',
	invoice_id       TEXT NOT NULL DEFAULT '',
	timer_started_at TEXT,
	notes            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS meetings (
	id         TEXT PRIMARY KEY,
	date       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	start_time TEXT NOT NULL DEFAULT '',
	end_time   TEXT NOT NULL DEFAULT '',
	client     TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS contacts (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	email   TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tax_rates (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	rate REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS invoices (
	id            TEXT PRIMARY KEY,
	number        TEXT NOT NULL DEFAULT '',
	client        TEXT NOT NULL DEFAULT '',
	issue_date    TEXT NOT NULL DEFAULT '',
	due_date      TEXT NOT NULL DEFAULT '',
	paid_date     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'pending',
	discount      REAL NOT NULL DEFAULT 0,
	discount_type TEXT NOT NULL DEFAULT '',
	template      TEXT NOT NULL DEFAULT '',
	notes         TEXT NOT NULL DEFAULT '',
	revision      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS invoice_items (
	id          TEXT PRIMARY KEY,
	invoice_id  TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL DEFAULT 0,
	item_type   TEXT NOT NULL DEFAULT 'item',
	description TEXT NOT NULL DEFAULT '',
	quantity    REAL NOT NULL DEFAULT 0,
	unit        TEXT NOT NULL DEFAULT '',
	hours       REAL NOT NULL DEFAULT 0,
	minutes     REAL NOT NULL DEFAULT 0,
	price       REAL NOT NULL DEFAULT 0,
	tax_id      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
CREATE INDEX IF NOT EXISTS idx_work_entries_date ON work_entries(date);
CREATE INDEX IF NOT EXISTS idx_travel_entries_date ON travel_entries(date);
CREATE INDEX IF NOT EXISTS idx_time_entries_date ON time_entries(date);
CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings(date);
CREATE INDEX IF NOT EXISTS idx_invoices_due_date ON invoices(due_date);
CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items(invoice_id);
`

// DB wraps a sql.DB with ledger-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
