package admin

import (
	"context"
	"errors"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/microservices/auth"
	"restaurant-ordering/internal/repository"
)

var ErrNoPassword = errors.New("auth.admin_password is required (RESTAURANT_AUTH_ADMIN_PASSWORD)")

// Run creates the admin account when it does not exist yet.
func Run(ctx context.Context, cfg *config.Config) error {
	if cfg.Auth.AdminPassword == "" {
		return ErrNoPassword
	}
	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	svc := auth.NewService(repository.NewUserRepository(db), repository.NewSessionsMem(), metrics.New(), cfg.Auth)
	created, err := svc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		return err
	}
	logger.New("create-admin").Info("admin_ensured", map[string]any{"username": cfg.Auth.AdminUsername, "created": created})
	return nil
}
