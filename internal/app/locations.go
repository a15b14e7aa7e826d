package app

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"flight_search/internal/domain"
)

const minQueryLen = 2

type LocationService struct {
	api   domain.FlightAPI
	cache domain.Cache
	ttl   time.Duration
}

// NewLocationService builds the suggestion lookup. cache may be nil.
func NewLocationService(api domain.FlightAPI, cache domain.Cache, ttl time.Duration) *LocationService {
	return &LocationService{api: api, cache: cache, ttl: ttl}
}

// Search is best-effort: short queries and every failure yield an empty list, never an error.
func (s *LocationService) Search(ctx context.Context, query string) []domain.Location {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minQueryLen {
		return []domain.Location{}
	}

	key := "locations:" + strings.ToLower(q)
	if s.cache != nil {
		var cached []domain.Location
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return cached
		}
	}

	raw, err := s.api.SearchLocations(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return []domain.Location{}
		}
		log.Warn().Err(&domain.LocationLookupError{Query: q, Err: err}).Msg("location suggestions unavailable")
		return []domain.Location{}
	}
	out := MapLocations(raw)

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, out, int(s.ttl.Seconds())); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("location cache set failed")
		}
	}
	return out
}

// MapLocations formats reference-data records and orders airports before cities,
// keeping API order otherwise.
func MapLocations(raw []domain.RawLocation) []domain.Location {
	out := make([]domain.Location, 0, len(raw))
	for _, r := range raw {
		out = append(out, mapLocation(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return locationRank(out[i]) < locationRank(out[j]) })
	return out
}

func locationRank(l domain.Location) int {
	if l.Type == domain.LocationCity {
		return 1
	}
	return 0
}

func mapLocation(r domain.RawLocation) domain.Location {
	var city, country string
	if r.Address != nil {
		city, country = r.Address.CityName, r.Address.CountryCode
	}

	var display string
	if domain.LocationType(r.SubType) == domain.LocationCity {
		display = city
		if display == "" {
			display = r.Name
		}
		if r.IataCode != "" && r.IataCode != city {
			display += " (" + r.IataCode + ")"
		}
		if country != "" {
			display += ", " + country
		}
	} else {
		display = r.Name
		if r.IataCode != "" {
			display = r.IataCode + " - " + r.Name
		}
		if city != "" && city != r.Name {
			display += ", " + city
		}
	}

	code := r.IataCode
	if code == "" {
		code = r.ID
	}
	return domain.Location{
		ID:          r.ID,
		Type:        domain.LocationType(r.SubType),
		Code:        code,
		DisplayName: display,
		CityName:    city,
		AirportName: r.Name,
		CountryCode: country,
	}
}
