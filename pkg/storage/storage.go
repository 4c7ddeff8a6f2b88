// Package storage opens and migrates the SQL database backing the registry of
// users, quizzes, and group plans.
//
// Two drivers are supported: sqlite3 (the default, good for a single-node
// deployment) and postgres. Queries throughout the codebase are written with
// `?` placeholders; Rebind translates them for postgres at call time so the
// domain packages stay driver-agnostic.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds database connection settings
type Config struct {
	Driver string
	DSN    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a sqlite3 configuration storing data in the working directory
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "studyhall.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	}
}

// DB wraps *sql.DB with the driver name so queries can be rebound per dialect
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the configured database and verifies the connection
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Driver != DriverSQLite && cfg.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, driver: cfg.Driver}, nil
}

// Wrap adapts an existing *sql.DB (used by tests with sqlmock)
func Wrap(db *sql.DB, driver string) *DB {
	return &DB{DB: db, driver: driver}
}

// Driver returns the driver name this connection was opened with
func (d *DB) Driver() string {
	return d.driver
}

// Rebind converts `?` placeholders to the driver's native form.
// For sqlite3 the query is returned unchanged; for postgres each `?`
// becomes `$1`, `$2`, and so on in order.
func (d *DB) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// InsertReturningID executes an INSERT and returns the generated row ID.
// sqlite3 reports it through LastInsertId; postgres needs a RETURNING clause.
func (d *DB) InsertReturningID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return d.insertReturningID(ctx, d.DB, query, args...)
}

// TxInsertReturningID is InsertReturningID inside an open transaction
func (d *DB) TxInsertReturningID(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	return d.insertReturningID(ctx, tx, query, args...)
}

// execer covers *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (d *DB) insertReturningID(ctx context.Context, e execer, query string, args ...interface{}) (int64, error) {
	if d.driver == DriverPostgres {
		var id int64
		q := d.Rebind(query) + " RETURNING id"
		if err := e.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
