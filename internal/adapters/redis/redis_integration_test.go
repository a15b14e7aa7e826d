//go:build integration

package redisad_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	redisad "flight_search/internal/adapters/redis"
	"flight_search/internal/app"
	"flight_search/internal/domain"
)

type oneCityAPI struct{ calls int }

func (a *oneCityAPI) SearchOffers(ctx context.Context, c domain.SearchCriteria) ([]domain.RawOffer, error) {
	return nil, nil
}

func (a *oneCityAPI) SearchLocations(ctx context.Context, keyword string) ([]domain.RawLocation, error) {
	a.calls++
	return []domain.RawLocation{{ID: "AMAD", SubType: "AIRPORT", Name: "ADOLFO SUAREZ BARAJAS", IataCode: "MAD",
		Address: &domain.RawAddress{CityName: "MADRID", CountryCode: "ES"}}}, nil
}

func TestLocationCache_Redis(t *testing.T) {
	// Let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7.2-alpine"}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: addr}))
	t.Cleanup(func() { _ = cache.Close() })
	if err := pool.Retry(func() error { return cache.Ping(context.Background()) }); err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	api := &oneCityAPI{}
	svc := app.NewLocationService(api, cache, 0)
	// ttl 0 disables writes; seed through a second service sharing the cache
	seeder := app.NewLocationService(api, cache, time.Hour)

	first := seeder.Search(context.Background(), "mad")
	second := svc.Search(context.Background(), "MAD")
	if api.calls != 1 {
		t.Fatalf("expected one upstream lookup, got %d", api.calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].DisplayName != "MAD - ADOLFO SUAREZ BARAJAS, MADRID" {
		t.Fatalf("first %+v second %+v", first, second)
	}
}
