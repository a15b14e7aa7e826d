package memcache

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"flight_search/internal/app"
	"flight_search/internal/domain"
)

// Sessions keeps search sessions for ttl after their last use.
type Sessions struct {
	c       *cache.Cache
	factory func(id string) *app.Session
}

func NewSessions(ttl time.Duration, factory func(id string) *app.Session) *Sessions {
	cleanup := time.Minute
	if ttl > 0 && ttl < 2*cleanup {
		cleanup = ttl / 2
	}
	c := cache.New(ttl, cleanup)
	c.OnEvicted(func(_ string, v any) {
		if s, ok := v.(*app.Session); ok {
			s.Close()
		}
	})
	return &Sessions{c: c, factory: factory}
}

func (s *Sessions) Create() *app.Session {
	sess := s.factory(uuid.NewString())
	s.c.Set(sess.ID, sess, cache.DefaultExpiration)
	return sess
}

// Get returns the session and extends its lifetime.
func (s *Sessions) Get(id string) (*app.Session, error) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.c.Set(id, v, cache.DefaultExpiration)
	return v.(*app.Session), nil
}

func (s *Sessions) Delete(id string) { s.c.Delete(id) }

func (s *Sessions) Len() int { return s.c.ItemCount() }
