package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/domain"
)

func newRamDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.ConnectDB(ctx, config.DatabaseConfig{Driver: "ramsql", Database: t.Name(), MaxConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(ctx, db))
	return db
}

func TestUserRepository_Ramsql(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newRamDB(t))

	alice := domain.User{Username: "alice", PasswordHash: "hash", Role: domain.RoleUser}
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.ErrorIs(t, repo.CreateUser(ctx, alice), domain.ErrUsernameTaken)
	require.NoError(t, repo.CreateUser(ctx, domain.User{Username: "admin", PasswordHash: "h", Role: domain.RoleAdmin}))

	got, err := repo.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = repo.GetUser(ctx, "bob")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{{Username: "admin", Role: domain.RoleAdmin}, {Username: "alice", Role: domain.RoleUser}}, users)
}

func TestFeedbackRepository_Ramsql(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepository(newRamDB(t))
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := repo.AddFeedback(ctx, domain.Feedback{Username: "alice", Text: "Good", Rating: 4, CreatedAt: at})
	require.NoError(t, err)
	second, err := repo.AddFeedback(ctx, domain.Feedback{Username: "bob", Text: "Great", Rating: 5, CreatedAt: at.Add(time.Hour)})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	page, err := repo.ListFeedback(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bob", page[0].Username)

	page, err = repo.ListFeedback(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "alice", page[0].Username)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(sql.ErrConnDone))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", errors.New("primary key violation"))))
}
