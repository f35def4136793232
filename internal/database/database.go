package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"docvault/internal/config"
)

var sqlOpen = sql.Open

// ValidateDSN checks that the connection string is a usable postgres URL.
func ValidateDSN(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("database connection string is required")
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("invalid database connection string: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("invalid database connection string: unsupported scheme %q", u.Scheme)
	}
	return nil
}

// NewPostgres opens a database/sql connection pool using the pgx stdlib
// driver wrapped with otelsql instrumentation, applies pool limits, and
// verifies connectivity. The pool is the one shared resource of the service:
// it bounds simultaneous connections and queues excess requests.
func NewPostgres(c config.DatabaseConfig) (*sql.DB, error) {
	if err := ValidateDSN(c.URL); err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, c.URL)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}
