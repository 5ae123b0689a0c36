package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/hbnb/hbnb-api/pkg/config"
	"github.com/hbnb/hbnb-api/pkg/retry"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Client represents a SQL database client
type Client struct {
	db     *sql.DB
	driver string
}

// NewClient opens the configured database and pings it with exponential backoff
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	dsn := cfg.DatabaseDSN()
	if cfg.Driver == DriverSQLite {
		dsn = withSQLiteForeignKeys(dsn)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// a single writer avoids "database is locked" under concurrent requests
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	err = retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		cfg.Driver,
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("next_delay", nextDelay).
				Str("driver", cfg.Driver).
				Msg("database connection attempt failed")
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s after retries: %w", cfg.Driver, err)
	}

	log.Info().Str("driver", cfg.Driver).Msg("connected to database")
	return &Client{db: db, driver: cfg.Driver}, nil
}

// NewFromDB wraps an already open connection pool
func NewFromDB(db *sql.DB, driver string) *Client {
	return &Client{db: db, driver: driver}
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Driver returns the database/sql driver name, which is also the goqu dialect
func (c *Client) Driver() string {
	return c.driver
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// BeginTx starts a new transaction
func (c *Client) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
