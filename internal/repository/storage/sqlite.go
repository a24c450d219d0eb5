package storage

import (
	"context"
	"fmt"

	// import the pure Go SQLite driver to register it with the database/sql package.
	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id   INTEGER PRIMARY KEY,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS game_count (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	current_count INTEGER NOT NULL
);`

// NewSQLite - opens the database and makes sure the schema exists.
func NewSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// sqlite allows a single writer; one connection also keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	if _, err = conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("can't create tables: %w", err)
	}

	return conn, nil
}
