package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ConnectToSQLite initializes and returns a SQLite connection. Foreign key
// enforcement is switched on so character deletes cascade to locations.
func ConnectToSQLite(dbPath string) (*sql.DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for SQLite: %w", err)
	}

	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return db, nil
}

// InitializeSchema creates all the necessary tables if they don't exist
func InitializeSchema(db *sql.DB) error {
	// Create characters table
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS characters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		occupation TEXT NOT NULL,
		is_suspect BOOLEAN NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return fmt.Errorf("failed to create characters table: %w", err)
	}

	// Create locations table. Coordinates are stored as fixed six-decimal
	// strings so the (9,6) precision survives the round trip.
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		character_id INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		lat TEXT NOT NULL,
		lon TEXT NOT NULL,
		FOREIGN KEY (character_id) REFERENCES characters(id) ON DELETE CASCADE
	)`)
	if err != nil {
		return fmt.Errorf("failed to create locations table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_locations_character_id ON locations(character_id)`)
	if err != nil {
		return fmt.Errorf("failed to create locations index: %w", err)
	}

	return nil
}
