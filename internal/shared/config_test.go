package shared

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "API_ADDR", "STORE_DRIVER", "FLASH_TTL_SECONDS", "CORS_ORIGINS", "RECOMMENDER_RPS", "AUTO_MIGRATE"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.APIAddr != ":8081" || c.WebAddr != ":8080" || c.StoreDriver != "mysql" {
		t.Fatalf("addr/driver defaults: %+v", c)
	}
	if c.FlashTTL != 5*time.Minute || c.HTTPClientTimeout != 5*time.Second || c.RecommenderTimeout != 10*time.Second {
		t.Fatalf("durations: %v %v %v", c.FlashTTL, c.HTTPClientTimeout, c.RecommenderTimeout)
	}
	if c.RecommenderRPS != 5 || c.SeedWorkers != 4 || c.AutoMigrate {
		t.Fatalf("ints: %+v", c)
	}
	if !reflect.DeepEqual(c.CORSOrigins, []string{"http://localhost:8080"}) {
		t.Fatalf("cors: %v", c.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RECOMMENDER_TIMEOUT_MS", "250")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SEED_WORKERS", "nope")

	c := Load()
	if c.StoreDriver != "memory" || !c.AutoMigrate || c.RedisDB != 3 {
		t.Fatalf("overrides: %+v", c)
	}
	if c.RecommenderTimeout != 250*time.Millisecond {
		t.Fatalf("timeout: %v", c.RecommenderTimeout)
	}
	if !reflect.DeepEqual(c.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("cors: %v", c.CORSOrigins)
	}
	if c.SeedWorkers != 4 {
		t.Fatalf("bad int should fall back, got %d", c.SeedWorkers)
	}
}

func TestLoad_UnknownDriverFallsBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	if got := Load().StoreDriver; got != "mysql" {
		t.Fatalf("driver = %q", got)
	}
}
