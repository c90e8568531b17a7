// Package sqlstore provides a database/sql implementation of the storage
// interfaces for SQLite, MySQL and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver (no CGO)

	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
)

// Ensure Store implements the storage interfaces.
var (
	_ storage.TaskStore = (*Store)(nil)
	_ storage.UserStore = (*Store)(nil)
)

// Store implements storage.TaskStore and storage.UserStore over database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Config holds SQL store configuration.
type Config struct {
	// Dialect specifies the database type.
	Dialect Dialect

	// DSN is the data source name. For SQLite it is the database file path.
	DSN string

	// DB is an existing database connection.
	// If provided, DSN is ignored.
	DB *sql.DB

	// MaxOpenConns sets the maximum number of open connections.
	MaxOpenConns int

	// MaxIdleConns sets the maximum number of idle connections.
	MaxIdleConns int

	// ConnMaxLifetime sets the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
}

// Open connects to the database and runs migrations.
// For SQLite it creates the parent directories of the database file.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db := cfg.DB
	if db == nil {
		if cfg.Dialect == SQLite {
			if err := ensureDir(cfg.DSN); err != nil {
				return nil, err
			}
		}

		dsn := cfg.DSN
		var err error
		if cfg.Dialect == MySQL {
			if dsn, err = mysqlDSN(dsn); err != nil {
				return nil, err
			}
		}

		db, err = sql.Open(cfg.Dialect.driverName(), dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		if cfg.Dialect == SQLite {
			// A single connection avoids SQLITE_BUSY between writers.
			db.SetMaxOpenConns(1)
		} else if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if cfg.Dialect == SQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := runMigrations(ctx, db, cfg.Dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, dialect: cfg.Dialect}, nil
}

// NewSQLite opens (and migrates) a SQLite database at dbPath.
func NewSQLite(dbPath string) (*Store, error) {
	return Open(context.Background(), Config{Dialect: SQLite, DSN: dbPath})
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Dialect reports which SQL dialect the store speaks.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

func ensureDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// mysqlDSN turns on clientFoundRows so UPDATE reports matched rows rather
// than changed rows; saving unchanged text must not look like a missing row.
func mysqlDSN(dsn string) (string, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	mc.ClientFoundRows = true
	return mc.FormatDSN(), nil
}
