package auth

import (
	"net/http"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/microservices/auth/handler"
	"restaurant-ordering/internal/microservices/auth/service"
	"restaurant-ordering/internal/repository"
)

func NewService(users repository.UserRepositoryInterface, sessions repository.Sessions,
	m *metrics.Metrics, cfg config.AuthConfig) *service.AuthService {
	return service.NewAuthService(users, sessions, m, logger.New("auth-service"), cfg.BcryptCost)
}

func Mount(mux *http.ServeMux, svc service.AuthServiceInterface) {
	handler.Mount(mux, handler.NewAuthHandler(svc))
}
