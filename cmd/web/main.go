package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"travel_catalog/internal/adapters/catalogapi"
	server "travel_catalog/internal/adapters/http_server"
	"travel_catalog/internal/adapters/observability"
	"travel_catalog/internal/adapters/recommender"
	redisad "travel_catalog/internal/adapters/redis"
	webserver "travel_catalog/internal/adapters/web_server"
	"travel_catalog/internal/app"
	"travel_catalog/internal/domain"
	"travel_catalog/internal/shared"
	"travel_catalog/internal/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "web")

	if cfg.MetricsAddr != "" {
		observability.MustRegisterAll()
		observability.Serve(cfg.MetricsAddr)
	}

	// deps
	api := catalogapi.New(cfg.CatalogAPIURL, cfg.HTTPClientTimeout)
	rec := recommender.New(recommender.Options{
		BaseURL: cfg.RecommenderURL,
		Timeout: cfg.RecommenderTimeout,
		RPS:     cfg.RecommenderRPS,
	})

	var flashes domain.FlashStore
	if cfg.RedisAddr != "" {
		rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.FlashTTL)
		defer rs.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rs.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable yet; flash messages may be lost")
		}
		cancel()
		flashes = rs
	} else {
		flashes = memory.NewFlashStore(cfg.FlashTTL)
	}

	// http
	srv := server.New(server.Options{RateLimitPerMinute: cfg.RateLimitPerMinute})
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	webserver.Mount(srv.Router(), &webserver.Handlers{
		Pages:   app.NewPageService(api, rec),
		Flashes: flashes,
	})

	httpSrv := &http.Server{Addr: cfg.WebAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.WebAddr).
		Str("api", cfg.CatalogAPIURL).
		Str("recommender", cfg.RecommenderURL).
		Msg("web listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
