package app

import (
	"sort"
	"time"

	"flight_search/internal/domain"
)

type SortKey string

const (
	SortPriceAsc      SortKey = "price-asc"
	SortPriceDesc     SortKey = "price-desc"
	SortDurationAsc   SortKey = "duration-asc"
	SortDurationDesc  SortKey = "duration-desc"
	SortDepartureAsc  SortKey = "departure-asc"
	SortDepartureDesc SortKey = "departure-desc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortPriceAsc, SortPriceDesc, SortDurationAsc, SortDurationDesc, SortDepartureAsc, SortDepartureDesc:
		return true
	}
	return false
}

// Sort returns a stably ordered copy. An unknown key keeps input order.
func Sort(flights []domain.Flight, key SortKey) []domain.Flight {
	out := make([]domain.Flight, len(flights))
	copy(out, flights)

	var less func(a, b domain.Flight) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b domain.Flight) bool { return a.Price.Amount.LessThan(b.Price.Amount) }
	case SortPriceDesc:
		less = func(a, b domain.Flight) bool { return a.Price.Amount.GreaterThan(b.Price.Amount) }
	case SortDurationAsc:
		less = func(a, b domain.Flight) bool { return a.DurationMinutes < b.DurationMinutes }
	case SortDurationDesc:
		less = func(a, b domain.Flight) bool { return a.DurationMinutes > b.DurationMinutes }
	case SortDepartureAsc:
		less = func(a, b domain.Flight) bool { return departure(a).Before(departure(b)) }
	case SortDepartureDesc:
		less = func(a, b domain.Flight) bool { return departure(a).After(departure(b)) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// departure is the zero time when the timestamp does not parse, so such flights sort first.
func departure(f domain.Flight) time.Time {
	t, _ := ParseTimestamp(f.Departure.Timestamp)
	return t
}
