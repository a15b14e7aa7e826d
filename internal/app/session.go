package app

import (
	"context"
	"sync"
	"time"

	"flight_search/internal/adapters/observability"
	"flight_search/internal/domain"
)

type FlightSearcher interface {
	SearchFlights(ctx context.Context, c domain.SearchCriteria) ([]domain.Flight, error)
}

// View is everything a client renders for the current result set.
type View struct {
	Flights       []domain.Flight       `json:"flights"`
	Buckets       []Bucket              `json:"buckets"`
	Options       FilterOptions         `json:"options"`
	Criteria      domain.FilterCriteria `json:"criteria"`
	Sort          SortKey               `json:"sort"`
	ActiveFilters int                   `json:"activeFilters"`
	Total         int                   `json:"total"`
}

// Session owns one client's result set, filter criteria and sort key.
// Only the most recently issued search may replace the result set.
type Session struct {
	ID string

	searcher  FlightSearcher
	suggester *Suggester

	mu       sync.Mutex
	issued   uint64
	results  []domain.Flight
	options  FilterOptions
	criteria domain.FilterCriteria
	sortKey  SortKey
}

func NewSession(id string, searcher FlightSearcher, locations LocationSearcher, debounce time.Duration) *Session {
	s := &Session{
		ID:        id,
		searcher:  searcher,
		suggester: NewSuggester(locations, debounce),
		sortKey:   SortPriceAsc,
	}
	s.resetLocked(nil)
	return s
}

// Search issues a new search. If another search was issued before this one resolves, the
// outcome is dropped and ErrStaleResponse returned. A failed latest search clears the results.
func (s *Session) Search(ctx context.Context, c domain.SearchCriteria) (View, error) {
	if err := c.Validate(); err != nil {
		return View{}, err
	}

	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	flights, err := s.searcher.SearchFlights(ctx, c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued {
		observability.ObserveStale("search")
		return View{}, domain.ErrStaleResponse
	}
	if err != nil {
		s.resetLocked(nil)
		return View{}, err
	}
	s.resetLocked(flights)
	return s.viewLocked(), nil
}

// resetLocked swaps in a result set and spans the criteria over it.
func (s *Session) resetLocked(flights []domain.Flight) {
	if flights == nil {
		flights = []domain.Flight{}
	}
	s.results = flights
	s.options = Options(flights)
	s.criteria = s.options.Criteria()
}

func (s *Session) SetCriteria(c domain.FilterCriteria) View {
	if c.Stops == nil {
		c.Stops = []int{}
	}
	if c.Airlines == nil {
		c.Airlines = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	return s.viewLocked()
}

func (s *Session) ResetCriteria() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.options.Criteria()
	return s.viewLocked()
}

func (s *Session) SetSort(key SortKey) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = key
	return s.viewLocked()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	visible := Filter(s.results, s.criteria)
	return View{
		Flights:       Sort(visible, s.sortKey),
		Buckets:       Aggregate(visible, DefaultBucketSize),
		Options:       s.options,
		Criteria:      s.criteria,
		Sort:          s.sortKey,
		ActiveFilters: ActiveFilterCount(s.criteria, s.options),
		Total:         len(s.results),
	}
}

// Suggest runs a debounced location lookup for this session's input field.
func (s *Session) Suggest(ctx context.Context, query string) ([]domain.Location, error) {
	return s.suggester.Suggest(ctx, query)
}

// Close stops any pending suggestion lookup.
func (s *Session) Close() { s.suggester.Cancel() }
