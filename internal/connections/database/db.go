package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"restaurant-ordering/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/proullon/ramsql/driver"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
	pingTTL    = 5 * time.Second
)

// DSN renders the connection string for the configured driver.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == "ramsql" {
		return cfg.Database
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)
}

// ConnectDB opens the pool and waits until the server answers a ping,
// retrying with a constant delay while ctx is alive.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var db *sql.DB
	attempt := func() error {
		conn, err := sql.Open(cfg.Driver, DSN(cfg))
		if err != nil {
			return err
		}
		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		defer cancel()
		if err := conn.PingContext(pctx); err != nil {
			_ = conn.Close()
			return err
		}
		db = conn
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), maxRetries-1),
		ctx,
	)
	if err := backoff.Retry(attempt, policy); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	return db, nil
}
