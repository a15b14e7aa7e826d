package domain

import "context"

// FlightAPI is the external offer-search and reference-data service.
type FlightAPI interface {
	SearchOffers(ctx context.Context, c SearchCriteria) ([]RawOffer, error)
	SearchLocations(ctx context.Context, keyword string) ([]RawLocation, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
