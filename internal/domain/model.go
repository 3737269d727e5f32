package domain

import (
	"slices"
	"time"
)

type SessionState string

const (
	StateBrowsing SessionState = "browsing"
	StatePlaced   SessionState = "placed"
	StateTracking SessionState = "tracking"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Order is a submitted cart.
type Order struct {
	ID       string    `json:"order_id"`
	Items    []string  `json:"items"`
	PlacedAt time.Time `json:"placed_at"`
}

// Session is the per-visitor ordering state. It is not safe for concurrent
// use; callers serialise access per session.
type Session struct {
	ID          string
	Username    string
	Role        string
	Cart        []string
	OrderPlaced bool
	State       SessionState
	LastOrder   *Order
	Favorites   []string
	CreatedAt   time.Time
}

func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, State: StateBrowsing, CreatedAt: now}
}

// AddToCart appends item as-is. Duplicates are kept as separate entries.
func (s *Session) AddToCart(item string) {
	s.Cart = append(s.Cart, item)
}

// PlaceOrder submits the cart. On an empty cart nothing changes. On success
// the cart is emptied and OrderPlaced set in the same step.
func (s *Session) PlaceOrder(orderID string, now time.Time) (Order, error) {
	if len(s.Cart) == 0 {
		return Order{}, ErrEmptyCart
	}
	o := Order{ID: orderID, Items: slices.Clone(s.Cart), PlacedAt: now}
	s.Cart = nil
	s.OrderPlaced = true
	s.State = StatePlaced
	s.LastOrder = &o
	return o, nil
}

// TrackOrder returns the delivery progression for the placed order, or
// ok=false with no state change when nothing was ordered yet.
func (s *Session) TrackOrder() (statuses []OrderStatus, ok bool) {
	if !s.OrderPlaced {
		return nil, false
	}
	s.State = StateTracking
	return StatusSequence(), true
}

// Reset is logout: the session goes back to an anonymous, empty Browsing state.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, State: StateBrowsing, CreatedAt: s.CreatedAt}
}

func (s *Session) Login(username, role string) {
	s.Username = username
	s.Role = role
}

func (s *Session) LoggedIn() bool { return s.Username != "" }

func (s *Session) IsAdmin() bool { return s.Role == RoleAdmin }

// ToggleFavorite adds item to favorites, or removes it when already there.
// It reports whether item is a favorite afterwards.
func (s *Session) ToggleFavorite(item string) bool {
	if i := slices.Index(s.Favorites, item); i >= 0 {
		s.Favorites = slices.Delete(s.Favorites, i, i+1)
		return false
	}
	s.Favorites = append(s.Favorites, item)
	return true
}

// Clone returns a deep copy, so a caller can stage changes and commit them
// only if follow-up work succeeds.
func (s *Session) Clone() *Session {
	c := *s
	c.Cart = slices.Clone(s.Cart)
	c.Favorites = slices.Clone(s.Favorites)
	if s.LastOrder != nil {
		o := *s.LastOrder
		o.Items = slices.Clone(s.LastOrder.Items)
		c.LastOrder = &o
	}
	return &c
}

// User is a row of the users table. PasswordHash is never serialised.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

type Feedback struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"feedback"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
