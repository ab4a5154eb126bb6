package fleet

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/rs/zerolog"
)

const syntheticIconURL = "https://raw.githubusercontent.com/pointhi/leaflet-color-markers/master/img/marker-icon-2x-blue.png"

var syntheticCategories = []models.CategoryDetail{
	{Name: "Economy"},
	{Name: "Comfort"},
	{Name: "XL"},
}

// SyntheticFetcher fabricates fetch results without touching the network.
// Its output flows through the same merge path as live data, so everything
// downstream behaves identically in offline development.
type SyntheticFetcher struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewSyntheticFetcher creates a generator seeded for reproducible runs.
func NewSyntheticFetcher(seed int64, logger zerolog.Logger) *SyntheticFetcher {
	return &SyntheticFetcher{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// FetchAll returns one successful synthetic result per location, each with 5
// to 15 vehicles scattered around the vantage point.
func (s *SyntheticFetcher) FetchAll(_ context.Context, locations []models.Location) []models.FetchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.FetchResult, 0, len(locations))
	for _, loc := range locations {
		count := 5 + s.rng.Intn(11)
		records := make([]models.RawVehicle, 0, count)
		for i := 0; i < count; i++ {
			lat := loc.Lat + s.rng.Float64()*0.03 - 0.015
			lng := loc.Lng + s.rng.Float64()*0.03 - 0.015
			records = append(records, models.RawVehicle{
				ID:      fmt.Sprintf("SYN_%s_%d", loc.ID, i),
				Lat:     &lat,
				Lng:     &lng,
				Bearing: float64(s.rng.Intn(360)),
			})
		}

		category := syntheticCategories[s.rng.Intn(len(syntheticCategories))]
		results = append(results, models.FetchResult{
			Location: loc,
			Success:  true,
			Payload: &models.VehiclePayload{
				Groups:     map[string][]models.RawVehicle{"economy": records},
				Icons:      map[string]models.CategoryIcon{"economy": {IconURL: syntheticIconURL}},
				Categories: map[string]models.CategoryDetail{"economy": category},
			},
		})
	}

	s.logger.Debug().Int("locations", len(locations)).Msg("Generated synthetic fetch results")
	return results
}
