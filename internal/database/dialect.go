package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect abstracts the differences between the supported SQL backends.
// Repositories write queries with ? placeholders and let the active
// dialect adjust syntax where a backend disagrees.
type Dialect interface {
	// DriverName is the name passed to sql.Open.
	DriverName() string

	// DSN builds the connection string from the dialect config.
	DSN(config DialectConfig) string

	// RewriteQuery adapts placeholder syntax for the backend.
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether Result.LastInsertId works.
	// When false, inserts go through a RETURNING clause instead.
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool settings and per-backend pragmas.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the directory holding this backend's
	// migration files.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns DDL for the migration ledger.
	CreateMigrationsTableQuery() string
}

// DialectConfig carries connection parameters. SQLite uses Path; the
// server backends use URL.
type DialectConfig struct {
	Path string
	URL  string
}

// numberPlaceholders turns each ? into $1, $2, ... in order of
// appearance. Queries never embed literal question marks, so a plain
// scan is enough.
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// configurePool applies the shared connection pool limits. Every
// dialect uses the same numbers.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
}
