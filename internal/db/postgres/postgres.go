// Package postgres opens the relational store and applies embedded migrations.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database/sql driver

	"github.com/momcircle/matchd/internal/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config holds connection parameters.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// DB wraps a sqlx handle.
type DB struct {
	*sqlx.DB
	dsn string
}

// Open connects lazily; use WaitForReady to block until the server answers.
func Open(cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	conn, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	conn.SetConnMaxLifetime(30 * time.Minute)
	return &DB{DB: conn, dsn: cfg.DSN}, nil
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (d *DB) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := d.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for postgres: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Migrate applies all pending up migrations. It returns the schema version.
func (d *DB) Migrate() (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, &db.Error{Op: db.OpMigrate, Err: err}
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, d.dsn)
	if err != nil {
		return 0, &db.Error{Op: db.OpMigrate, Err: err}
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("%w: %w", db.ErrMigrationsFailed, err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, &db.Error{Op: db.OpMigrate, Err: err}
	}
	if dirty {
		return version, fmt.Errorf("%w: schema version %d is dirty", db.ErrMigrationsFailed, version)
	}
	return version, nil
}
