package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

// SessionRepository persists the "logged in" hint: a single durable
// boolean recording that a server session probably exists, used only to
// decide whether to attempt a profile fetch on startup.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Set() error {
	query := `
	INSERT INTO session (id, logged_in, updated_at) VALUES (1, 1, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET logged_in = 1, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("set session hint: %w", err)
	}
	return nil
}

func (r *SessionRepository) Clear() error {
	query := `
	INSERT INTO session (id, logged_in, updated_at) VALUES (1, 0, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET logged_in = 0, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("clear session hint: %w", err)
	}
	return nil
}

func (r *SessionRepository) Present() (bool, error) {
	var loggedIn bool
	err := r.db.QueryRow(`SELECT logged_in FROM session WHERE id = 1`).Scan(&loggedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read session hint: %w", err)
	}
	return loggedIn, nil
}
