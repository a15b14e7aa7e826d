package app

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"flight_search/internal/adapters/observability"
	"flight_search/internal/domain"
)

const DefaultDebounce = 300 * time.Millisecond

type LocationSearcher interface {
	Search(ctx context.Context, query string) []domain.Location
}

// Suggester debounces lookups for one input field. Each call replaces the pending timer;
// a call overtaken by a newer one, before or after its lookup, gets ErrStaleResponse.
type Suggester struct {
	lookup LocationSearcher
	delay  time.Duration

	mu      sync.Mutex
	seq     uint64
	pending *pendingLookup
}

type pendingLookup struct {
	timer      *time.Timer
	superseded chan struct{}
	cancel     context.CancelFunc
}

func NewSuggester(lookup LocationSearcher, delay time.Duration) *Suggester {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Suggester{lookup: lookup, delay: delay}
}

func (s *Suggester) Suggest(ctx context.Context, query string) ([]domain.Location, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	short := utf8.RuneCountInString(strings.TrimSpace(query)) < minQueryLen

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.supersedeLocked()
	var p *pendingLookup
	if !short {
		p = &pendingLookup{timer: time.NewTimer(s.delay), superseded: make(chan struct{}), cancel: cancel}
		s.pending = p
	}
	s.mu.Unlock()

	if short {
		return []domain.Location{}, nil
	}

	select {
	case <-ctx.Done():
		p.timer.Stop()
		// supersedeLocked closes superseded before cancelling, so this is never a race
		select {
		case <-p.superseded:
			observability.ObserveStale("suggest")
			return nil, domain.ErrStaleResponse
		default:
		}
		return nil, ctx.Err()
	case <-p.superseded:
		observability.ObserveStale("suggest")
		return nil, domain.ErrStaleResponse
	case <-p.timer.C:
	}

	out := s.lookup.Search(ctx, query)

	s.mu.Lock()
	latest := seq == s.seq
	if latest && s.pending == p {
		s.pending = nil
	}
	s.mu.Unlock()
	if !latest {
		observability.ObserveStale("suggest")
		return nil, domain.ErrStaleResponse
	}
	return out, nil
}

// Cancel drops the pending lookup, if any.
func (s *Suggester) Cancel() {
	s.mu.Lock()
	s.seq++
	s.supersedeLocked()
	s.mu.Unlock()
}

func (s *Suggester) supersedeLocked() {
	if s.pending == nil {
		return
	}
	s.pending.timer.Stop()
	close(s.pending.superseded)
	s.pending.cancel()
	s.pending = nil
}
