package fleet

import (
	"context"
	"fmt"

	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/prasertsri/fleet-radar/internal/utils"
	"github.com/prasertsri/fleet-radar/pkg/bolt"
	"github.com/rs/zerolog"
)

// DefaultWorkers bounds how many upstream calls are in flight at once.
const DefaultWorkers = 10

// Fetcher produces exactly one FetchResult per location. Result order is not
// guaranteed to match input order; identity travels with each result.
type Fetcher interface {
	FetchAll(ctx context.Context, locations []models.Location) []models.FetchResult
}

// Coordinator fans a batch of locations out across a bounded worker pool and
// waits for every dispatched unit before returning. It holds no state between
// calls; every FetchAll is an independent fan-out.
type Coordinator struct {
	client  bolt.Client
	workers int
	logger  zerolog.Logger
}

// NewCoordinator creates a coordinator around the given upstream client.
func NewCoordinator(client bolt.Client, workers int, logger zerolog.Logger) *Coordinator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Coordinator{
		client:  client,
		workers: workers,
		logger:  logger,
	}
}

// FetchAll polls every location concurrently, bounded by the worker count.
// A panic inside one unit is converted into a failed result for that location
// and never aborts its siblings.
func (c *Coordinator) FetchAll(ctx context.Context, locations []models.Location) []models.FetchResult {
	pool := utils.NewWorkerPool(c.workers)
	resultCh := make(chan models.FetchResult, len(locations))

	for _, loc := range locations {
		loc := loc
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error().
						Str("location_id", loc.ID).
						Interface("panic", r).
						Msg("Fetch unit panicked")
					resultCh <- models.FetchResult{
						Location:  loc,
						Success:   false,
						ErrorKind: models.ErrorInternal,
						Error:     fmt.Sprintf("fetch panicked: %v", r),
					}
				}
			}()
			resultCh <- c.client.FetchVehicles(ctx, loc)
		})
	}

	pool.Shutdown()
	close(resultCh)

	results := make([]models.FetchResult, 0, len(locations))
	for result := range resultCh {
		results = append(results, result)
	}
	return results
}
