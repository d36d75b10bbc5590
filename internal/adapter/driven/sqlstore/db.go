// Package sqlstore implements the storage ports on a relational database:
// PostgreSQL through pgx, or SQLite through modernc.org/sqlite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers the "pgx" driver.
	_ "modernc.org/sqlite"             // Registers the "sqlite" driver.
)

// Dialect identifies the SQL engine behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB provides separate reader and writer connections. For SQLite the writer
// is limited to a single connection to avoid "database is locked" errors and
// the reader pool allows up to 4 concurrent readers. For PostgreSQL both
// fields share one pool.
type DB struct {
	Writer  *sql.DB
	Reader  *sql.DB
	dialect Dialect
}

// ParseDialect selects a dialect from a connection string. postgres:// and
// postgresql:// URLs select PostgreSQL; anything else is treated as a SQLite
// path, optionally prefixed with sqlite:// or sqlite:.
func ParseDialect(databaseURL string) (Dialect, string) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DialectPostgres, databaseURL
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(databaseURL, "sqlite://")
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return DialectSQLite, strings.TrimPrefix(databaseURL, "sqlite:")
	default:
		return DialectSQLite, databaseURL
	}
}

// NewDB opens the database named by databaseURL and verifies connectivity.
func NewDB(ctx context.Context, databaseURL string) (*DB, error) {
	dialect, target := ParseDialect(databaseURL)
	if target == "" {
		return nil, fmt.Errorf("open database: empty connection string")
	}

	if dialect == DialectPostgres {
		return openPostgres(ctx, target)
	}
	return openSQLite(ctx, target)
}

func openPostgres(ctx context.Context, dsn string) (*DB, error) {
	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pool.SetMaxOpenConns(4)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &DB{Writer: pool, Reader: pool, dialect: DialectPostgres}, nil
}

// openSQLite enables WAL mode, busy timeout, synchronous NORMAL, foreign keys
// and a 64MB cache.
func openSQLite(ctx context.Context, path string) (*DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		path,
	)
	return openSQLiteDSN(ctx, dsn)
}

func openSQLiteDSN(ctx context.Context, dsn string) (*DB, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, dialect: DialectSQLite}, nil
}

// Dialect reports which SQL engine the DB talks to.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close closes both reader and writer connections. Returns the first error encountered.
func (db *DB) Close() error {
	if db.Reader == db.Writer {
		if err := db.Writer.Close(); err != nil {
			return fmt.Errorf("close pool: %w", err)
		}
		return nil
	}

	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}

// rebind rewrites '?' placeholders into PostgreSQL's $1, $2, ... form.
// Queries in this package never contain a literal '?'.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
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
