package notificator

import (
	"context"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/microservices/notificator/service"
)

func Start(ctx context.Context, rmqClient *rabbitmq.Client, prefetch int) error {
	return service.NewNotificatorService(rmqClient, logger.New("notificator"), prefetch).Run(ctx)
}
