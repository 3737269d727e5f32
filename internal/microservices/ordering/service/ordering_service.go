package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
)

// Publisher delivers order events to the broker.
type Publisher interface {
	PublishJSON(ctx context.Context, exchange, key, correlationID string, v any) error
}

// Catalog is the subset of the menu the ordering flow needs.
type Catalog interface {
	Lookup(name string) (domain.MenuItem, bool)
}

type OrderingServiceInterface interface {
	CreateSession(ctx context.Context) *domain.Session
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	AddToCart(ctx context.Context, sessionID, item string) ([]string, error)
	Cart(ctx context.Context, sessionID string) ([]string, error)
	PlaceOrder(ctx context.Context, sessionID string) (domain.Order, error)
	TrackOrder(ctx context.Context, sessionID string) ([]domain.OrderStatus, error)

	ToggleFavorite(ctx context.Context, sessionID, item string) (favorite bool, favorites []string, err error)
	Favorites(ctx context.Context, sessionID string) ([]string, error)
}

type Options struct {
	// ValidateItems rejects items that are not in the catalog.
	ValidateItems  bool
	PublishTimeout time.Duration
}

type OrderingService struct {
	sessions  repository.Sessions
	catalog   Catalog
	publisher Publisher // nil when the broker is disabled
	metrics   *metrics.Metrics
	lg        *logger.Logger
	opts      Options

	now     func() time.Time
	orderID func() string
}

func NewOrderingService(sessions repository.Sessions, catalog Catalog, publisher Publisher,
	m *metrics.Metrics, lg *logger.Logger, opts Options) *OrderingService {
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 5 * time.Second
	}
	return &OrderingService{
		sessions:  sessions,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
		lg:        lg,
		opts:      opts,
		now:       time.Now,
		orderID:   func() string { return ksuid.New().String() },
	}
}

func (s *OrderingService) CreateSession(_ context.Context) *domain.Session {
	sess := s.sessions.Create()
	s.metrics.ActiveSessions.Inc()
	s.lg.Info("session_created", map[string]any{"session_id": sess.ID})
	return sess
}

func (s *OrderingService) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.Get(sessionID)
}

func (s *OrderingService) DeleteSession(_ context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	s.metrics.ActiveSessions.Dec()
	s.lg.Info("session_deleted", map[string]any{"session_id": sessionID})
	return nil
}

func (s *OrderingService) AddToCart(_ context.Context, sessionID, item string) ([]string, error) {
	item = strings.TrimSpace(item)
	if err := s.checkItem(item); err != nil {
		return nil, err
	}

	var cart []string
	err := s.sessions.Update(sessionID, func(sess *domain.Session) error {
		sess.AddToCart(item)
		cart = append([]string(nil), sess.Cart...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.CartAdditions.Inc()
	s.lg.Debug("cart_item_added", map[string]any{"session_id": sessionID, "item": item, "cart_size": len(cart)})
	return cart, nil
}

func (s *OrderingService) Cart(_ context.Context, sessionID string) ([]string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Cart, nil
}

// PlaceOrder submits the cart. When a broker is configured the order event
// must be confirmed before the session changes; otherwise the cart is left
// exactly as it was.
func (s *OrderingService) PlaceOrder(ctx context.Context, sessionID string) (domain.Order, error) {
	var placed domain.Order
	err := s.sessions.Update(sessionID, func(sess *domain.Session) error {
		staged := sess.Clone()
		o, err := staged.PlaceOrder(s.orderID(), s.now().UTC())
		if err != nil {
			return err
		}
		if err := s.publish(ctx, sess, o); err != nil {
			return err
		}
		*sess = *staged
		placed = o
		return nil
	})
	if err != nil {
		s.metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		s.lg.Error("order_rejected", err, map[string]any{"session_id": sessionID})
		return domain.Order{}, err
	}

	s.metrics.OrdersPlaced.Inc()
	s.lg.Info("order_placed", map[string]any{
		"session_id": sessionID, "order_id": placed.ID, "items": len(placed.Items),
	})
	return placed, nil
}

func (s *OrderingService) publish(ctx context.Context, sess *domain.Session, o domain.Order) error {
	if s.publisher == nil {
		return nil
	}
	pctx, cancel := context.WithTimeout(ctx, s.opts.PublishTimeout)
	defer cancel()

	ev := domain.NewOrderPlacedEvent(sess.ID, sess.Username, o)
	if err := s.publisher.PublishJSON(pctx, rabbitmq.OrdersExchange, domain.EventOrderPlaced, o.ID, ev); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublish, err)
	}
	return nil
}

// TrackOrder returns the fixed delivery progression, or ErrNoOrder when the
// session has not submitted anything.
func (s *OrderingService) TrackOrder(_ context.Context, sessionID string) ([]domain.OrderStatus, error) {
	var statuses []domain.OrderStatus
	err := s.sessions.Update(sessionID, func(sess *domain.Session) error {
		st, ok := sess.TrackOrder()
		if !ok {
			return domain.ErrNoOrder
		}
		statuses = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *OrderingService) ToggleFavorite(_ context.Context, sessionID, item string) (bool, []string, error) {
	item = strings.TrimSpace(item)
	if err := s.checkItem(item); err != nil {
		return false, nil, err
	}
	var (
		fav  bool
		favs []string
	)
	err := s.sessions.Update(sessionID, func(sess *domain.Session) error {
		fav = sess.ToggleFavorite(item)
		favs = append([]string(nil), sess.Favorites...)
		return nil
	})
	return fav, favs, err
}

func (s *OrderingService) Favorites(_ context.Context, sessionID string) ([]string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Favorites, nil
}

func (s *OrderingService) checkItem(item string) error {
	if item == "" {
		return domain.ErrEmptyItem
	}
	if s.opts.ValidateItems {
		if _, ok := s.catalog.Lookup(item); !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownItem, item)
		}
	}
	return nil
}

// ExpireIdle drops sessions that have not been used for maxIdle.
func (s *OrderingService) ExpireIdle(_ context.Context, maxIdle time.Duration) int {
	removed := s.sessions.Sweep(s.now().UTC().Add(-maxIdle))
	if len(removed) == 0 {
		return 0
	}
	s.metrics.ActiveSessions.Sub(float64(len(removed)))
	s.lg.Info("sessions_expired", map[string]any{"count": len(removed), "max_idle": maxIdle.String()})
	return len(removed)
}

// RunSweeper calls ExpireIdle every interval until ctx is done.
func (s *OrderingService) RunSweeper(ctx context.Context, maxIdle, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.ExpireIdle(ctx, maxIdle)
		}
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrPublish):
		return "publish_failed"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	default:
		return "other"
	}
}
