package app_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"flight_search/internal/domain"
)

// ---- fixtures ----

// offer builds a raw offer flying carrier "AA" through route (at least two airports).
func offer(id, duration, total string, route ...string) domain.RawOffer {
	segs := make([]domain.RawSegment, 0, len(route)-1)
	for i := 0; i+1 < len(route); i++ {
		segs = append(segs, domain.RawSegment{
			Departure:   domain.RawPoint{IataCode: route[i], At: fmt.Sprintf("2026-11-02T%02d:00:00", 8+2*i)},
			Arrival:     domain.RawPoint{IataCode: route[i+1], At: fmt.Sprintf("2026-11-02T%02d:30:00", 9+2*i)},
			CarrierCode: "AA",
			Number:      fmt.Sprintf("%d", 100+i),
		})
	}
	return domain.RawOffer{
		ID:          id,
		Itineraries: []domain.RawItinerary{{Duration: duration, Segments: segs}},
		Price:       domain.RawPrice{Total: domain.Amount(total), Currency: "USD"},
	}
}

func flight(id, price string, stops, minutes int, airline, departure string) domain.Flight {
	return domain.Flight{
		ID:              id,
		Airline:         domain.Airline{Code: airline, Name: domain.AirlineName(airline)},
		Departure:       domain.Endpoint{Timestamp: departure},
		DurationMinutes: minutes,
		StopCount:       stops,
		StopLocations:   make([]string, stops),
		Price:           domain.Price{Amount: decimal.RequireFromString(price), Currency: "USD"},
		CabinClass:      domain.CabinEconomy,
	}
}

func ids(fs []domain.Flight) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}

// ---- fakes ----

type fakeAPI struct {
	offers    []domain.RawOffer
	offersErr error
	locs      []domain.RawLocation
	locErr    error

	offerCalls int32
	locCalls   int32
}

func (f *fakeAPI) SearchOffers(ctx context.Context, c domain.SearchCriteria) ([]domain.RawOffer, error) {
	atomic.AddInt32(&f.offerCalls, 1)
	return f.offers, f.offersErr
}

func (f *fakeAPI) SearchLocations(ctx context.Context, keyword string) ([]domain.RawLocation, error) {
	atomic.AddInt32(&f.locCalls, 1)
	return f.locs, f.locErr
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Location:
		*d = v.([]domain.Location)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }
