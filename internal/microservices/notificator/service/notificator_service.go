package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/domain"
)

const consumerTag = "notificator"

// ErrDeliveriesClosed is returned by Run when the broker closes the
// delivery channel.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

type Consumer interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

type NotificatorService struct {
	consumer Consumer
	lg       *logger.Logger
	workers  int
}

// NewNotificatorService handles up to workers deliveries at a time. The
// same number is used as the channel prefetch.
func NewNotificatorService(consumer Consumer, lg *logger.Logger, workers int) *NotificatorService {
	if workers <= 0 {
		workers = 1
	}
	return &NotificatorService{consumer: consumer, lg: lg, workers: workers}
}

// Run consumes order events until ctx is done or the broker goes away.
// Deliveries already handed to the pool are finished before it returns.
func (ns *NotificatorService) Run(ctx context.Context) error {
	msgs, err := ns.consumer.Consume(rabbitmq.NotificationsQueue, consumerTag, ns.workers)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", rabbitmq.NotificationsQueue, err)
	}
	pool, err := ants.NewPool(ns.workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	defer wg.Wait()

	ns.lg.Info("notificator_started", map[string]any{"queue": rabbitmq.NotificationsQueue, "workers": ns.workers})
	for {
		select {
		case <-ctx.Done():
			ns.lg.Info("notificator_stopped", nil)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return ErrDeliveriesClosed
			}
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				ns.Handle(d)
			}); err != nil {
				wg.Done()
				ns.lg.Error("submit_failed", err, map[string]any{"delivery_tag": d.DeliveryTag})
				_ = d.Nack(false, true)
			}
		}
	}
}

// Handle acknowledges a well-formed order event. Anything else is rejected
// without requeue so it ends up in the dead letter queue.
func (ns *NotificatorService) Handle(d amqp.Delivery) {
	var ev domain.OrderPlacedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		ns.reject(d, err)
		return
	}
	if ev.EventType != domain.EventOrderPlaced || ev.OrderID == "" {
		ns.reject(d, fmt.Errorf("unexpected event %q for order %q", ev.EventType, ev.OrderID))
		return
	}

	ns.lg.Info("order_notification", map[string]any{
		"order_id":   ev.OrderID,
		"session_id": ev.SessionID,
		"username":   ev.Username,
		"items":      ev.Items,
		"placed_at":  ev.PlacedAt,
	})
	if err := d.Ack(false); err != nil {
		ns.lg.Error("ack_failed", err, map[string]any{"order_id": ev.OrderID})
	}
}

func (ns *NotificatorService) reject(d amqp.Delivery, cause error) {
	ns.lg.Warn("message_rejected", map[string]any{"delivery_tag": d.DeliveryTag, "error": cause.Error()})
	if err := d.Reject(false); err != nil {
		ns.lg.Error("reject_failed", err, map[string]any{"delivery_tag": d.DeliveryTag})
	}
}
