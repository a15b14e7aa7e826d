package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	AmadeusBase   string
	AmadeusID     string
	AmadeusSecret string
	AmadeusRPS    int

	// RedisAddr empty selects the in-process cache.
	RedisAddr string
	RedisDB   int
	RedisPass string

	LocationTTL     time.Duration
	SessionTTL      time.Duration
	SuggestDebounce time.Duration
	APIRatePerIP    int
	PrefetchWorkers int
}

// Load reads an optional .env file, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		AmadeusBase:   env("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusID:     env("AMADEUS_CLIENT_ID", ""),
		AmadeusSecret: env("AMADEUS_CLIENT_SECRET", ""),
		AmadeusRPS:    atoi("AMADEUS_RPS", 10),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   atoi("REDIS_DB", 0),
		RedisPass: env("REDIS_PASSWORD", ""),

		LocationTTL:     time.Duration(atoi("LOCATION_CACHE_TTL_SECONDS", 3600)) * time.Second,
		SessionTTL:      time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
		SuggestDebounce: time.Duration(atoi("SUGGEST_DEBOUNCE_MS", 300)) * time.Millisecond,
		APIRatePerIP:    atoi("API_RATE_PER_IP", 5),
		PrefetchWorkers: atoi("PREFETCH_WORKERS", 4),
	}
	if c.AmadeusID == "" || c.AmadeusSecret == "" {
		log.Warn().Msg("AMADEUS_CLIENT_ID or AMADEUS_CLIENT_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}
