package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (and on first use creates) the local client-state
// database. It holds the session-presence hint and the persisted
// cookie jar, nothing else — never session content.
func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect state db: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS session (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        logged_in INTEGER NOT NULL DEFAULT 0,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS cookies (
        name TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        path TEXT NOT NULL DEFAULT '/',
        expires DATETIME
    );
    `

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("create state tables: %w", err)
	}
	return nil
}
