package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect represents a SQL database dialect.
type Dialect string

const (
	// SQLite dialect (pure Go driver, no CGO).
	SQLite Dialect = "sqlite"
	// MySQL dialect.
	MySQL Dialect = "mysql"
	// PostgreSQL dialect (pgx stdlib driver).
	PostgreSQL Dialect = "postgres"
)

// ParseDialect maps a backend name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return PostgreSQL, nil
	default:
		return "", fmt.Errorf("unknown sql dialect %q", name)
	}
}

// driverName returns the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	switch d {
	case MySQL:
		return "mysql"
	case PostgreSQL:
		return "pgx"
	default:
		return "sqlite"
	}
}

// schema returns the migration statements for the dialect.
func (d Dialect) schema() string {
	switch d {
	case MySQL:
		return mysqlSchema
	case PostgreSQL:
		return postgresSchema
	default:
		return sqliteSchema
	}
}

// rebind rewrites `?` placeholders into the dialect's positional form.
// Queries in this package never contain literal question marks.
func (d Dialect) rebind(query string) string {
	if d != PostgreSQL {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
