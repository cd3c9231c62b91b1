package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "travel_catalog/internal/adapters/http_server"
	"travel_catalog/internal/adapters/observability"
	"travel_catalog/internal/app"
	"travel_catalog/internal/domain"
	"travel_catalog/internal/shared"
	"travel_catalog/internal/storage/memory"
	mysqlrepo "travel_catalog/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "catalog-api")

	if cfg.MetricsAddr != "" {
		observability.MustRegisterAll()
		observability.Serve(cfg.MetricsAddr)
	}

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	// http
	srv := server.New(server.Options{
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{C: app.NewCatalogService(store)})

	httpSrv := &http.Server{Addr: cfg.APIAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.APIAddr).Str("store", cfg.StoreDriver).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

func openStore(ctx context.Context, cfg shared.Config) (domain.CatalogStore, func()) {
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.New(), func() {}
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	if cfg.AutoMigrate {
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		log.Info().Msg("migrations applied")
	}
	return mysqlrepo.New(db), func() { _ = db.Close() }
}
