package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"restaurant-ordering/internal/common/health"
	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/auth"
	"restaurant-ordering/internal/microservices/feedback"
	"restaurant-ordering/internal/microservices/menu"
	"restaurant-ordering/internal/microservices/ordering"
	ordersvc "restaurant-ordering/internal/microservices/ordering/service"
	"restaurant-ordering/internal/repository"
)

// Deps are the shared pieces every HTTP module is built from. Broker is nil
// when RabbitMQ is disabled.
type Deps struct {
	DB       *sql.DB
	Broker   *rabbitmq.Client
	Sessions repository.Sessions
	Catalog  *domain.Catalog
	Metrics  *metrics.Metrics
	Config   *config.Config
}

// Routes mounts every module on one mux and wraps it with request metrics.
func Routes(d Deps) http.Handler {
	h, _ := routes(d)
	return h
}

func routes(d Deps) (http.Handler, *ordersvc.OrderingService) {
	var (
		publisher ordersvc.Publisher
		pinger    health.Pinger
	)
	if d.Broker != nil {
		publisher, pinger = d.Broker, d.Broker
	}
	users := repository.NewUserRepository(d.DB)

	mux := http.NewServeMux()
	menu.Mount(mux, d.Catalog)
	orders := ordering.Mount(mux, d.Sessions, d.Catalog, publisher, d.Metrics, d.Config.Ordering)
	auth.Mount(mux, auth.NewService(users, d.Sessions, d.Metrics, d.Config.Auth))
	feedback.Mount(mux, repository.NewFeedbackRepository(d.DB), users, d.Sessions, d.Metrics)
	health.Mount(mux, health.NewHandler(d.DB, pinger))
	mux.Handle("GET /metrics", d.Metrics.Handler())
	return d.Metrics.Instrument(mux), orders
}

func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("web")

	catalog, err := domain.DefaultCatalog()
	if err != nil {
		return err
	}

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}
	lg.Info("db_connected", map[string]any{"driver": cfg.Database.Driver, "host": cfg.Database.Host})

	var broker *rabbitmq.Client
	if cfg.RabbitMQ.Enabled {
		if broker, err = rabbitmq.Dial(ctx, cfg.RabbitMQ); err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer broker.Close()
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host, "vhost": cfg.RabbitMQ.VHost})
	} else {
		lg.Warn("rabbitmq_disabled", map[string]any{"detail": "orders are accepted without events"})
	}

	h, orders := routes(Deps{
		DB:       db,
		Broker:   broker,
		Sessions: repository.NewSessionsMem(),
		Catalog:  catalog,
		Metrics:  metrics.New(),
		Config:   cfg,
	})
	if ttl := cfg.Ordering.SessionTTL; ttl > 0 {
		go orders.RunSweeper(ctx, ttl, cfg.Ordering.SweepInterval)
	}
	lg.Info("service_started", map[string]any{"port": cfg.HTTP.Port})
	return httpx.New(":"+strconv.Itoa(cfg.HTTP.Port), h, cfg.HTTP).Run(ctx)
}
