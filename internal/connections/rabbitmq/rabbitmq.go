package rabbitmq

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/config"
)

const (
	dialAttempts = 5
	dialDelay    = 2 * time.Second

	// room for late confirms of publishes that timed out
	confirmBuffer = 16
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation // publisher confirms
	mu   sync.Mutex               // publishes are serialised while waiting for confirms
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// URL renders the AMQP URL for cfg. An empty vhost means "/".
func URL(cfg config.RabbitMQConfig) string {
	vhost := cfg.VHost
	if vhost == "" || vhost == "/" {
		vhost = ""
	}
	scheme := "amqp"
	if cfg.UseTLS {
		scheme = "amqps"
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", scheme, cfg.User, cfg.Password, cfg.Host, cfg.Port, vhost)
}

// Dial connects, opens a channel in confirm mode and declares the topology.
// Connection failures are retried a few times before giving up.
func Dial(ctx context.Context, cfg config.RabbitMQConfig) (*Client, error) {
	url := URL(cfg)

	var conn *amqp.Connection
	err := retry.Do(
		func() error {
			var err error
			if cfg.UseTLS {
				conn, err = amqp.DialTLS(url, &tls.Config{MinVersion: tls.VersionTLS12})
			} else {
				conn, err = amqp.Dial(url)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(dialAttempts),
		retry.Delay(dialDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))

	c := &Client{conn: conn, ch: ch, acks: acks}
	if err := c.DeclareTopology(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Ping is a cheap liveness check of the connection.
func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Publish sends one message and waits for the broker ack of that message.
func (c *Client) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.ch.GetNextPublishSeqNo()
	if err := c.ch.PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		return err
	}
	return awaitConfirm(ctx, c.acks, seq)
}

// awaitConfirm waits for the confirm carrying delivery tag seq. Confirms with
// a lower tag belong to publishes that already gave up and are dropped.
func awaitConfirm(ctx context.Context, acks <-chan amqp.Confirmation, seq uint64) error {
	for {
		select {
		case conf, ok := <-acks:
			if !ok {
				return errors.New("confirm channel closed")
			}
			if conf.DeliveryTag < seq {
				continue
			}
			if conf.DeliveryTag > seq {
				return fmt.Errorf("confirm for delivery %d missing, got %d", seq, conf.DeliveryTag)
			}
			if !conf.Ack {
				return errors.New("publish NACK from broker")
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// PublishJSON marshals v into a persistent JSON message.
func (c *Client) PublishJSON(ctx context.Context, exchange, key, correlationID string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.Publish(ctx, exchange, key, NewJSONPublishing(body, correlationID))
}

func NewJSONPublishing(body []byte, correlationID string) amqp.Publishing {
	return amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     uuid.NewString(),
		CorrelationId: correlationID,
		Timestamp:     time.Now().UTC(),
		Headers:       amqp.Table{"x-source": "ordering-service"},
		Body:          body,
	}
}

// Consume subscribes with manual acks and the given prefetch.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
