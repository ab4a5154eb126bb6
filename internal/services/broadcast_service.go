package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prasertsri/fleet-radar/internal/fleet"
	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/prasertsri/fleet-radar/internal/transport"
	"github.com/rs/zerolog"
)

// BroadcastService drives the process-wide fetch-merge-publish loop. One
// iteration is a cycle: poll every vantage point, merge the results into a
// snapshot, push it to all subscribers, then wait the configured interval
// measured from the end of the publish. Cycles never overlap.
type BroadcastService struct {
	// Configuration fields
	interval  time.Duration
	locations []models.Location

	// Dependencies
	fetcher   fleet.Fetcher
	publisher transport.Publisher
	logger    zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	mu   sync.RWMutex
	last *models.FleetSnapshot
}

// NewBroadcastService creates a new BroadcastService instance with the provided configuration.
func NewBroadcastService(interval time.Duration, locations []models.Location,
	fetcher fleet.Fetcher, publisher transport.Publisher, logger zerolog.Logger) *BroadcastService {
	return &BroadcastService{
		interval:  interval,
		locations: locations,
		fetcher:   fetcher,
		publisher: publisher,
		logger:    logger,
		running:   false,
	}
}

// Start launches the broadcast loop in a separate goroutine.
func (b *BroadcastService) Start() error {
	if b.running {
		b.logger.Warn().Msg("BroadcastService is already running")
		return errors.New("broadcast service is already running")
	}

	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.running = true

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runBroadcastLoop()
	}()

	b.logger.Info().
		Dur("interval", b.interval).
		Int("locations", len(b.locations)).
		Msg("BroadcastService started")
	return nil
}

// Stop gracefully stops the broadcast loop after the current cycle finishes.
func (b *BroadcastService) Stop() error {
	if !b.running {
		b.logger.Warn().Msg("BroadcastService is not running")
		return errors.New("broadcast service is not running")
	}

	b.cancel()
	b.wg.Wait()

	b.running = false
	b.logger.Info().Msg("BroadcastService stopped")
	return nil
}

// runBroadcastLoop repeats cycles until the service is stopped. A failed
// cycle is logged and the loop continues at the standard cadence; the loop
// itself never terminates on a cycle error.
func (b *BroadcastService) runBroadcastLoop() {
	for {
		if err := b.cycle(b.ctx); err != nil {
			b.logger.Error().Err(err).Msg("Broadcast cycle failed")
		}

		select {
		case <-b.ctx.Done():
			b.logger.Info().Msg("BroadcastService is stopping")
			return
		case <-time.After(b.interval):
		}
	}
}

// cycle runs one fetch+merge+publish pass. Any panic below is absorbed here
// so a single bad cycle cannot take the loop down.
func (b *BroadcastService) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()

	snapshot := b.Snapshot(ctx)

	b.mu.Lock()
	b.last = &snapshot
	b.mu.Unlock()

	b.publisher.Publish(snapshot)

	b.logger.Info().
		Int("vehicles", snapshot.Count).
		Int("success_locations", len(snapshot.SuccessLocations)).
		Int("failed_locations", len(snapshot.FailedLocations)).
		Float64("fetch_seconds", snapshot.FetchDurationSeconds).
		Msg("Fleet snapshot broadcast")
	return nil
}

// Snapshot runs one synchronous fetch+merge pass over the full location set
// and returns the resulting snapshot without publishing it. Used by the
// request/response route layer independently of the broadcast cadence.
func (b *BroadcastService) Snapshot(ctx context.Context) models.FleetSnapshot {
	start := time.Now()
	results := b.fetcher.FetchAll(ctx, b.locations)
	merged := fleet.Merge(results)

	return models.FleetSnapshot{
		Vehicles:             merged.Vehicles,
		Count:                len(merged.Vehicles),
		LocationsTotal:       len(b.locations),
		SuccessLocations:     merged.SuccessLocations,
		FailedLocations:      merged.FailedLocations,
		FetchDurationSeconds: time.Since(start).Seconds(),
		GeneratedAt:          time.Now().UTC(),
	}
}

// LastSnapshot returns the most recently broadcast snapshot, or nil before
// the first cycle completes.
func (b *BroadcastService) LastSnapshot() *models.FleetSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

// Locations returns the static configured vantage point set.
func (b *BroadcastService) Locations() []models.Location {
	return b.locations
}
