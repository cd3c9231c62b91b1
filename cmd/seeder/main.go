package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"travel_catalog/internal/adapters/catalogapi"
	"travel_catalog/internal/adapters/observability"
	"travel_catalog/internal/app"
	"travel_catalog/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "seeder")

	log.Info().
		Str("api", cfg.CatalogAPIURL).
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file")
	}
	items, err := app.LoadSeed(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("load seed file")
	}

	if cfg.MetricsAddr != "" {
		observability.MustRegisterAll()
		observability.Serve(cfg.MetricsAddr)
	}

	seeder := app.NewSeedService(catalogapi.New(cfg.CatalogAPIURL, cfg.HTTPClientTimeout), cfg.SeedWorkers)
	seeder.OnDestination = func(_ string, err error) {
		if err != nil {
			observability.ObserveSeed("failed")
			return
		}
		observability.ObserveSeed("ok")
	}

	rep, err := seeder.Run(ctx, items)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("destinations", rep.Destinations).
		Int("hotels", rep.Hotels).
		Int("activities", rep.Activities).
		Int("failed", rep.Failed).
		Msg("seeding completed")
	if err != nil {
		stop()
		os.Exit(1)
	}
}
