package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"restaurant-ordering/internal/domain"
)

// Sessions stores ordering sessions in process memory. Each session is
// guarded by its own lock; there is no state shared between sessions.
type Sessions interface {
	Create() *domain.Session
	Get(id string) (*domain.Session, error)
	// Update runs fn with exclusive access to the session. Whatever fn leaves
	// in the session is kept, even when fn returns an error.
	Update(id string, fn func(s *domain.Session) error) error
	Delete(id string) bool
	Count() int
	// Sweep removes sessions last touched before cutoff and returns their ids.
	Sweep(cutoff time.Time) []string
}

type entry struct {
	mu       sync.Mutex
	session  *domain.Session
	lastSeen time.Time
}

type sessionsMem struct {
	items cmap.ConcurrentMap[string, *entry]
	now   func() time.Time
}

func NewSessionsMem() Sessions {
	return &sessionsMem{items: cmap.New[*entry](), now: time.Now}
}

func (r *sessionsMem) Create() *domain.Session {
	now := r.now().UTC()
	s := domain.NewSession(uuid.NewString(), now)
	r.items.Set(s.ID, &entry{session: s, lastSeen: now})
	return s.Clone()
}

// Get returns a snapshot; changes to it are not stored.
func (r *sessionsMem) Get(id string) (*domain.Session, error) {
	e, ok := r.items.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = r.now().UTC()
	return e.session.Clone(), nil
}

func (r *sessionsMem) Update(id string, fn func(s *domain.Session) error) error {
	e, ok := r.items.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = r.now().UTC()
	return fn(e.session)
}

func (r *sessionsMem) Delete(id string) bool {
	_, ok := r.items.Pop(id)
	return ok
}

func (r *sessionsMem) Count() int { return r.items.Count() }

func (r *sessionsMem) Sweep(cutoff time.Time) []string {
	var removed []string
	for item := range r.items.IterBuffered() {
		e := item.Val
		e.mu.Lock()
		if e.lastSeen.Before(cutoff) && r.items.RemoveCb(item.Key, func(_ string, v *entry, exists bool) bool {
			return exists && v == e
		}) {
			removed = append(removed, item.Key)
		}
		e.mu.Unlock()
	}
	return removed
}
