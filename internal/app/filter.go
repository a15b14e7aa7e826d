package app

import (
	"strings"

	"flight_search/internal/domain"
)

// Filter returns the flights matching every criterion, in input order. The input is not modified.
func Filter(flights []domain.Flight, c domain.FilterCriteria) []domain.Flight {
	out := make([]domain.Flight, 0, len(flights))
	stops := make(map[int]struct{}, len(c.Stops))
	for _, s := range c.Stops {
		stops[s] = struct{}{}
	}
	airlines := make(map[string]struct{}, len(c.Airlines))
	for _, a := range c.Airlines {
		if a = strings.ToUpper(strings.TrimSpace(a)); a != "" {
			airlines[a] = struct{}{}
		}
	}

	for _, f := range flights {
		if matchPrice(f, c) && matchStops(f, stops) && matchAirline(f, airlines) && matchDuration(f, c) {
			out = append(out, f)
		}
	}
	return out
}

func matchPrice(f domain.Flight, c domain.FilterCriteria) bool {
	return !f.Price.Amount.LessThan(c.PriceMin) && !f.Price.Amount.GreaterThan(c.PriceMax)
}

func matchStops(f domain.Flight, stops map[int]struct{}) bool {
	if len(stops) == 0 {
		return true
	}
	_, ok := stops[f.StopCategory()]
	return ok
}

func matchAirline(f domain.Flight, airlines map[string]struct{}) bool {
	if len(airlines) == 0 {
		return true
	}
	_, ok := airlines[strings.ToUpper(f.Airline.Code)]
	return ok
}

func matchDuration(f domain.Flight, c domain.FilterCriteria) bool {
	return f.DurationMinutes <= c.MaxDuration
}
