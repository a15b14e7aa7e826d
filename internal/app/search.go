package app

import (
	"context"

	"flight_search/internal/domain"
)

type SearchService struct {
	api domain.FlightAPI
}

func NewSearchService(api domain.FlightAPI) *SearchService {
	return &SearchService{api: api}
}

// SearchFlights validates the criteria, runs one offer search and normalizes the result.
// Errors are *domain.AuthError, *domain.SearchError or wrap domain.ErrInvalidCriteria.
// Results are never cached.
func (s *SearchService) SearchFlights(ctx context.Context, c domain.SearchCriteria) ([]domain.Flight, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	offers, err := s.api.SearchOffers(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return []domain.Flight{}, nil
	}
	return Normalize(offers), nil
}
