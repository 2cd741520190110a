package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Purchase ids come from the ledger (dense, zero-based), never from sqlite
// autoincrement; a cleared purchase keeps its row with zeroed columns.
const schema = `
CREATE TABLE IF NOT EXISTS purchases (
    id INTEGER PRIMARY KEY,
    amount INTEGER NOT NULL,
    payer TEXT NOT NULL DEFAULT '',
    is_split INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contributions (
    purchase_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    contributor TEXT NOT NULL,
    amount INTEGER NOT NULL,
    PRIMARY KEY (purchase_id, position),
    FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contributions_purchase_id ON contributions(purchase_id);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
