package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "REDIS_ADDR", "SUGGEST_DEBOUNCE_MS", "AMADEUS_RPS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPAddr != ":8080" || c.RedisAddr != "" || c.SuggestDebounce != 300*time.Millisecond || c.AmadeusRPS != 10 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("PREFETCH_WORKERS", "not-a-number")
	c := Load()
	if c.HTTPAddr != ":9999" || c.RedisAddr != "cache:6379" || c.SessionTTL != time.Minute {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.PrefetchWorkers != 4 {
		t.Fatalf("bad integer should fall back, got %d", c.PrefetchWorkers)
	}
}
