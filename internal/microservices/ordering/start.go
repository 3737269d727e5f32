package ordering

import (
	"net/http"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/ordering/handler"
	"restaurant-ordering/internal/microservices/ordering/service"
	"restaurant-ordering/internal/repository"
)

// Mount wires the ordering service onto mux and returns it. publisher may be
// nil, in which case orders are accepted without emitting events.
func Mount(mux *http.ServeMux, sessions repository.Sessions, catalog *domain.Catalog,
	publisher service.Publisher, m *metrics.Metrics, cfg config.OrderingConfig) *service.OrderingService {
	svc := service.NewOrderingService(sessions, catalog, publisher, m, logger.New("ordering-service"), service.Options{
		ValidateItems:  cfg.ValidateItems,
		PublishTimeout: cfg.PublishTimeout,
	})
	handler.Mount(mux, &handler.Handler{
		OrderingHandler: handler.NewOrderingHandler(svc),
		TrackerHandler:  handler.NewTrackerHandler(svc, cfg.TrackStepInterval),
	})
	return svc
}
