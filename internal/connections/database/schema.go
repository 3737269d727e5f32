package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username VARCHAR(255) PRIMARY KEY,
		password VARCHAR(255) NOT NULL,
		role     VARCHAR(32)  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id         BIGSERIAL PRIMARY KEY,
		username   VARCHAR(255) NOT NULL,
		feedback   TEXT NOT NULL,
		rating     INT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// EnsureSchema creates the tables when missing. There are no migrations;
// existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
