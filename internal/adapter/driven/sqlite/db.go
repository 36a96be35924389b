package sqlite

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB owns the single SQLite connection used for the lifetime of the process.
// The pool is capped at one connection; the tool is single-user and
// sequential, so every statement runs on the same handle.
type DB struct {
	Conn *sqlx.DB
}

// NewDB opens the database file at dbPath (creating it if needed) with a busy
// timeout so a second process waits on the file lock instead of failing at once.
// dbPath is a plain file path; characters such as '?', '#' and '%' name the
// file literally.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		url.PathEscape(dbPath),
	)

	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Conn: conn}, nil
}

// Close releases the connection.
func (db *DB) Close() error {
	if err := db.Conn.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
