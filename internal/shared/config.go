package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	APIAddr     string
	WebAddr     string
	MetricsAddr string

	StoreDriver string // mysql | memory
	MySQLDSN    string
	AutoMigrate bool

	RedisAddr string
	RedisDB   int
	RedisPass string
	FlashTTL  time.Duration

	CatalogAPIURL      string
	RecommenderURL     string
	HTTPClientTimeout  time.Duration
	RecommenderTimeout time.Duration
	RecommenderRPS     int

	CORSOrigins        []string
	RateLimitPerMinute int

	SeedFile    string
	SeedWorkers int
}

func Load() Config {
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		APIAddr:     env("API_ADDR", ":8081"),
		WebAddr:     env("WEB_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		StoreDriver: strings.ToLower(env("STORE_DRIVER", "mysql")),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/travel?parseTime=true&charset=utf8mb4&loc=UTC"),
		AutoMigrate: boolean("AUTO_MIGRATE", false),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		FlashTTL:  time.Duration(atoi("FLASH_TTL_SECONDS", 300)) * time.Second,

		CatalogAPIURL:      env("CATALOG_API_URL", "http://localhost:8081/api"),
		RecommenderURL:     env("RECOMMENDER_URL", "http://localhost:5000/api/ia"),
		HTTPClientTimeout:  time.Duration(atoi("HTTP_CLIENT_TIMEOUT_MS", 5000)) * time.Millisecond,
		RecommenderTimeout: time.Duration(atoi("RECOMMENDER_TIMEOUT_MS", 10000)) * time.Millisecond,
		RecommenderRPS:     atoi("RECOMMENDER_RPS", 5),

		CORSOrigins:        list("CORS_ORIGINS", "http://localhost:8080"),
		RateLimitPerMinute: atoi("RATE_LIMIT_PER_MINUTE", 600),

		SeedFile:    env("SEED_FILE", "seed.json"),
		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
	if c.StoreDriver != "mysql" && c.StoreDriver != "memory" {
		log.Warn().Str("driver", c.StoreDriver).Msg("unknown STORE_DRIVER, using mysql")
		c.StoreDriver = "mysql"
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

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// list splits a comma separated value, dropping blanks.
func list(k, def string) []string {
	var out []string
	for _, p := range strings.Split(env(k, def), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
