package repository

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"
)

// CookieRepository persists the API session cookies between CLI
// invocations, the way a browser's cookie store would between page
// loads. Only name, value, path and expiry are kept; the cookies all
// belong to the one configured base URL.
type CookieRepository struct {
	db *sql.DB
}

func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db}
}

// Save replaces the stored cookies with the given set.
func (r *CookieRepository) Save(cookies []*http.Cookie) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}

	query := `INSERT INTO cookies (name, value, path, expires) VALUES (?, ?, ?, ?)`
	for _, ck := range cookies {
		path := ck.Path
		if path == "" {
			path = "/"
		}
		var expires *time.Time
		if !ck.Expires.IsZero() {
			e := ck.Expires.UTC()
			expires = &e
		}
		if _, err := tx.Exec(query, ck.Name, ck.Value, path, expires); err != nil {
			return fmt.Errorf("save cookie %s: %w", ck.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	return nil
}

// Load returns the stored cookies, dropping any that have expired.
func (r *CookieRepository) Load() ([]*http.Cookie, error) {
	rows, err := r.db.Query(`SELECT name, value, path, expires FROM cookies`)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var cookies []*http.Cookie
	for rows.Next() {
		var ck http.Cookie
		var expires *time.Time
		if err := rows.Scan(&ck.Name, &ck.Value, &ck.Path, &expires); err != nil {
			return nil, fmt.Errorf("load cookies: %w", err)
		}
		if expires != nil {
			if expires.Before(now) {
				continue
			}
			ck.Expires = *expires
		}
		cookies = append(cookies, &ck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	return cookies, nil
}

// Clear removes every stored cookie.
func (r *CookieRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}
