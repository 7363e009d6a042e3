// Package sqlite provides SQLite-based storage implementations for lnreader services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
//
// Every service call holds a single process-wide lock for its whole
// duration, so multi-statement reads and writes never interleave.
type DB struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection: SQLite allows a single writer and the services
	// serialize on db.mu anyway.
	conn.SetMaxOpenConns(1)

	if err := db.configure(conn); err != nil {
		conn.Close()
		return err
	}
	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (db *DB) configure(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("connect to database %s: %w", db.path, err)
	}
	pragmas := []string{"busy_timeout = 5000", "foreign_keys = ON"}
	if db.path != ":memory:" {
		pragmas = append(pragmas, "journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec("PRAGMA " + p); err != nil {
			return fmt.Errorf("set pragma %s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// querier is implemented by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// session runs fn under the lock without a transaction.
func (db *DB) session(ctx context.Context, fn func(q querier) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(db.db)
}

// tx runs fn under the lock inside a transaction. The transaction is
// committed if fn returns nil and rolled back otherwise.
func (db *DB) tx(ctx context.Context, fn func(q querier) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS pages (
			id TEXT PRIMARY KEY,
			page TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			parent TEXT NOT NULL DEFAULT '',
			ord INTEGER NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL,
			last_check TEXT NOT NULL,
			is_watched INTEGER NOT NULL DEFAULT 0,
			is_downloaded INTEGER NOT NULL DEFAULT 0,
			is_finished_read INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_pages_parent ON pages(parent, ord);

		CREATE TABLE IF NOT EXISTS novels (
			id TEXT PRIMARY KEY,
			page TEXT NOT NULL UNIQUE REFERENCES pages(page) ON DELETE CASCADE,
			synopsis TEXT NOT NULL DEFAULT '',
			cover_url TEXT NOT NULL DEFAULT '',
			redirect_to TEXT NOT NULL DEFAULT '',
			last_update TEXT NOT NULL,
			last_check TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			novel_id TEXT NOT NULL REFERENCES novels(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			ord INTEGER NOT NULL DEFAULT 0,
			chapter_parent TEXT NOT NULL,
			UNIQUE (novel_id, title)
		);

		CREATE TABLE IF NOT EXISTS contents (
			id TEXT PRIMARY KEY,
			page TEXT NOT NULL UNIQUE REFERENCES pages(page) ON DELETE CASCADE,
			content TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			last_x_scroll INTEGER NOT NULL DEFAULT 0,
			last_y_scroll INTEGER NOT NULL DEFAULT 0,
			last_zoom REAL NOT NULL DEFAULT 1,
			last_update TEXT NOT NULL,
			last_check TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS images (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL UNIQUE,
			referer TEXT NOT NULL DEFAULT '',
			local_path TEXT NOT NULL DEFAULT '',
			last_update TEXT NOT NULL,
			last_check TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_images_referer ON images(referer);

		CREATE TABLE IF NOT EXISTS content_images (
			content_id TEXT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
			image_id TEXT NOT NULL REFERENCES images(id) ON DELETE CASCADE,
			ord INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (content_id, image_id)
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
