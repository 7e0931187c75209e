// Package postgres opens the SQL connection pool used by the Postgres menu backend.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/goldenspoon/dinebot/internal/db"
)

// Compile-time check: DB implements db.Pinger.
var _ db.Pinger = (*DB)(nil)

const (
	driverName        = "postgres"
	readyPollInterval = 250 * time.Millisecond
)

// Config holds connection pool parameters.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps a *sql.DB with readiness helpers.
type DB struct {
	sql *sql.DB
}

// Open creates the pool. No connection is made until first use.
func Open(cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		conn.SetConnMaxIdleTime(cfg.ConnMaxLifetime)
	}

	return &DB{sql: conn}, nil
}

// Wrap adopts an existing pool, e.g. one created by sqlmock.
func Wrap(conn *sql.DB) *DB {
	return &DB{sql: conn}
}

// SQL exposes the underlying pool to repositories.
func (d *DB) SQL() *sql.DB { return d.sql }

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (d *DB) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, d, timeout, readyPollInterval)
}

// Close releases the pool.
func (d *DB) Close() {
	_ = d.sql.Close()
}
