package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"flight_search/internal/adapters/amadeus"
	server "flight_search/internal/adapters/http_server"
	"flight_search/internal/adapters/memcache"
	"flight_search/internal/adapters/observability"
	redisad "flight_search/internal/adapters/redis"
	"flight_search/internal/app"
	"flight_search/internal/domain"
	"flight_search/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	tokens, err := amadeus.NewTokenManager(cfg.AmadeusBase, cfg.AmadeusID, cfg.AmadeusSecret, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("token manager init failed")
	}
	client, err := amadeus.New(cfg.AmadeusBase, tokens, cfg.AmadeusRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("flight API client init failed")
	}

	cache := newCache(ctx, cfg)
	search := app.NewSearchService(client)
	locations := app.NewLocationService(client, cache, cfg.LocationTTL)
	sessions := memcache.NewSessions(cfg.SessionTTL, func(id string) *app.Session {
		return app.NewSession(id, search, locations, cfg.SuggestDebounce)
	})

	router := newRouter(cfg, &server.Handlers{Locations: locations, Sessions: sessions})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("api", cfg.AmadeusBase).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// newRouter builds the public API. Metrics stay on their own listener (METRICS_ADDR).
func newRouter(cfg shared.Config, h *server.Handlers) http.Handler {
	srv := server.New(server.Options{RatePerIP: cfg.APIRatePerIP})
	srv.MountHandlers(h)
	return srv.Mux()
}

// newCache prefers redis when configured and reachable, fronted by a process-local layer;
// otherwise the in-process cache alone.
func newCache(ctx context.Context, cfg shared.Config) domain.Cache {
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := rc.Ping(pingCtx)
		if err == nil {
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache connected")
			return memcache.Layered{Local: memcache.New(5 * time.Minute), Remote: rc}
		}
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-process cache")
		_ = rc.Close()
	}
	return memcache.New(5 * time.Minute)
}
