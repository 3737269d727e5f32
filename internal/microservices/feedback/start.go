package feedback

import (
	"net/http"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/microservices/feedback/handler"
	"restaurant-ordering/internal/microservices/feedback/service"
	"restaurant-ordering/internal/repository"
)

func Mount(mux *http.ServeMux, feedback repository.FeedbackRepositoryInterface,
	users repository.UserRepositoryInterface, sessions repository.Sessions, m *metrics.Metrics) {
	svc := service.NewFeedbackService(feedback, users, sessions, m, logger.New("feedback-service"))
	handler.Mount(mux, handler.NewFeedbackHandler(svc))
}
