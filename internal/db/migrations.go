package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			date_key   TEXT NOT NULL,
			id         TEXT NOT NULL,
			owner      TEXT NOT NULL DEFAULT '',
			data       TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (date_key, id)
		);

		CREATE INDEX IF NOT EXISTS idx_events_id ON events(id);

		CREATE TABLE IF NOT EXISTS goals (
			owner TEXT NOT NULL,
			id    TEXT NOT NULL,
			data  TEXT NOT NULL,
			PRIMARY KEY (owner, id)
		);

		CREATE TABLE IF NOT EXISTS days (
			date_key TEXT PRIMARY KEY,
			holiday  INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
