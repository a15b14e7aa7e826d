package main

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"flight_search/internal/adapters/amadeus"
	"flight_search/internal/adapters/observability"
	redisad "flight_search/internal/adapters/redis"
	"flight_search/internal/app"
	"flight_search/internal/domain"
	"flight_search/internal/shared"
)

// prefetch warms the location-suggestion cache for the well-known airports, querying each
// airport's code and its city name.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required: an in-process cache would not outlive this command")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	tokens, err := amadeus.NewTokenManager(cfg.AmadeusBase, cfg.AmadeusID, cfg.AmadeusSecret, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("token manager init failed")
	}
	client, err := amadeus.New(cfg.AmadeusBase, tokens, cfg.AmadeusRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("flight API client init failed")
	}

	locations := app.NewLocationService(client, cache, cfg.LocationTTL)

	queries := prefetchQueries()
	log.Info().Int("queries", len(queries)).Int("workers", cfg.PrefetchWorkers).Msg("prefetch starting")

	sem := semaphore.NewWeighted(int64(max(cfg.PrefetchWorkers, 1)))
	var wg sync.WaitGroup
	var empty int64

	for _, q := range queries {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			defer sem.Release(1)

			if got := locations.Search(ctx, q); len(got) == 0 {
				atomic.AddInt64(&empty, 1)
				log.Warn().Str("query", q).Msg("no suggestions cached")
				return
			}
			log.Debug().Str("query", q).Msg("prefetch ok")
		}(q)
	}

	wg.Wait()
	log.Info().Int64("empty", empty).Msg("prefetch completed")
}

func prefetchQueries() []string {
	seen := map[string]bool{}
	var out []string
	add := func(q string) {
		if q != "" && !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	for _, code := range domain.AirportCodes() {
		add(code)
		if a, ok := domain.LookupAirport(code); ok {
			add(a.City)
		}
	}
	return out
}
