package notify

import (
	"context"
	"errors"

	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/microservices/notificator"
)

var ErrBrokerDisabled = errors.New("notifier needs rabbitmq.enabled=true")

func Run(ctx context.Context, cfg *config.Config) error {
	if !cfg.RabbitMQ.Enabled {
		return ErrBrokerDisabled
	}
	rmq, err := rabbitmq.Dial(ctx, cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer rmq.Close()
	return notificator.Start(ctx, rmq, cfg.RabbitMQ.Prefetch)
}
