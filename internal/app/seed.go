package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_catalog/internal/domain"
)

// SeedDestination is one entry of a seed file: a destination with its
// hotels and activities nested underneath.
type SeedDestination struct {
	domain.Destination
	Hotels     []domain.Hotel    `json:"hotels"`
	Activities []domain.Activity `json:"activities"`
}

func LoadSeed(r io.Reader) ([]SeedDestination, error) {
	var out []SeedDestination
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return out, nil
}

type SeedReport struct {
	Destinations int
	Hotels       int
	Activities   int
	Failed       int
}

type SeedService struct {
	api     domain.CatalogAPI
	workers int64

	// OnDestination, when set, is called once per seed entry.
	OnDestination func(name string, err error)
}

func NewSeedService(api domain.CatalogAPI, workers int) *SeedService {
	if workers <= 0 {
		workers = 1
	}
	return &SeedService{api: api, workers: int64(workers)}
}

// Run creates every destination and then its children with the new id.
// A failing entry is logged and counted; the rest still run.
func (s *SeedService) Run(ctx context.Context, items []SeedDestination) (SeedReport, error) {
	sem := semaphore.NewWeighted(s.workers)
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		rep SeedReport
	)

	for _, item := range items {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, err
		}

		wg.Add(1)
		go func(it SeedDestination) {
			defer wg.Done()
			defer sem.Release(1)

			hotels, acts, err := s.seedOne(ctx, it)

			mu.Lock()
			rep.Hotels += hotels
			rep.Activities += acts
			if err != nil {
				rep.Failed++
			} else {
				rep.Destinations++
			}
			mu.Unlock()

			if err != nil {
				log.Warn().Str("destination", it.Name).Err(err).Msg("seed failed")
			} else {
				log.Info().Str("destination", it.Name).Int("hotels", hotels).Int("activities", acts).Msg("seed ok")
			}
			if s.OnDestination != nil {
				s.OnDestination(it.Name, err)
			}
		}(item)
	}

	wg.Wait()
	if rep.Failed > 0 {
		return rep, fmt.Errorf("%d of %d destinations failed", rep.Failed, len(items))
	}
	return rep, nil
}

func (s *SeedService) seedOne(ctx context.Context, it SeedDestination) (hotels, acts int, err error) {
	d, err := s.api.CreateDestination(ctx, it.Destination)
	if err != nil {
		return 0, 0, fmt.Errorf("create destination: %w", err)
	}
	var firstErr error
	for _, h := range it.Hotels {
		h.DestinationID = &d.ID
		if _, err := s.api.CreateHotel(ctx, h); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("create hotel %q: %w", h.Name, err)
			}
			continue
		}
		hotels++
	}
	for _, a := range it.Activities {
		a.DestinationID = &d.ID
		if _, err := s.api.CreateActivity(ctx, a); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("create activity %q: %w", a.Name, err)
			}
			continue
		}
		acts++
	}
	return hotels, acts, firstErr
}
