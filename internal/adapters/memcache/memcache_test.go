package memcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"flight_search/internal/app"
	"flight_search/internal/domain"
)

func TestCache_GetSetDel(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	in := []domain.Location{{Code: "LHR", DisplayName: "LHR - HEATHROW, LONDON"}}
	if err := c.Set(ctx, "locations:lon", in, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	in[0].Code = "mutated"

	var out []domain.Location
	ok, err := c.Get(ctx, "locations:lon", &out)
	if err != nil || !ok || out[0].Code != "LHR" {
		t.Fatalf("get: ok=%v err=%v out=%+v", ok, err, out)
	}

	_ = c.Del(ctx, "locations:lon")
	if ok, _ := c.Get(ctx, "locations:lon", &out); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, "k", "v", 1)
	time.Sleep(1100 * time.Millisecond)
	var v string
	if ok, _ := c.Get(ctx, "k", &v); ok {
		t.Fatalf("expected expired entry")
	}
}

func TestCache_MarshalError(t *testing.T) {
	if err := New(time.Minute).Set(context.Background(), "k", func() {}, 10); err == nil {
		t.Fatalf("expected marshal error")
	}
}

func newSessions(ttl time.Duration) *Sessions {
	return NewSessions(ttl, func(id string) *app.Session {
		return app.NewSession(id, nil, nil, time.Millisecond)
	})
}

func TestSessions_CreateAndGet(t *testing.T) {
	s := newSessions(time.Minute)
	a, b := s.Create(), s.Create()
	if a.ID == b.ID {
		t.Fatalf("duplicate session ids")
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Fatalf("session id is not a uuid: %q", a.ID)
	}
	got, err := s.Get(a.ID)
	if err != nil || got != a {
		t.Fatalf("get: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len: %d", s.Len())
	}
}

func TestSessions_UnknownAndDeleted(t *testing.T) {
	s := newSessions(time.Minute)
	if _, err := s.Get("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	a := s.Create()
	s.Delete(a.ID)
	if _, err := s.Get(a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSessions_SlidingExpiry(t *testing.T) {
	s := newSessions(300 * time.Millisecond)
	a := s.Create()
	for i := 0; i < 3; i++ {
		time.Sleep(200 * time.Millisecond)
		if _, err := s.Get(a.ID); err != nil {
			t.Fatalf("session expired despite use (round %d)", i)
		}
	}
	time.Sleep(400 * time.Millisecond)
	if _, err := s.Get(a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("idle session should expire, got %v", err)
	}
}

func TestLayered_ReadThroughAndWriteBoth(t *testing.T) {
	ctx := context.Background()
	local, remote := New(time.Minute), New(time.Minute)
	l := Layered{Local: local, Remote: remote}

	_ = remote.Set(ctx, "only-remote", "r", 0)
	var v string
	if ok, err := l.Get(ctx, "only-remote", &v); !ok || err != nil || v != "r" {
		t.Fatalf("read-through: ok=%v err=%v v=%q", ok, err, v)
	}

	if err := l.Set(ctx, "both", "b", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ok, _ := local.Get(ctx, "both", &v); !ok {
		t.Fatalf("local not written")
	}
	if ok, _ := remote.Get(ctx, "both", &v); !ok {
		t.Fatalf("remote not written")
	}

	_ = l.Del(ctx, "both")
	if ok, _ := l.Get(ctx, "both", &v); ok {
		t.Fatalf("delete did not reach both layers")
	}
}
