package fleet_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prasertsri/fleet-radar/internal/fleet"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSyntheticFetcher_ShapeCompatible verifies the offline generator's
// output merges exactly like live results.
func TestSyntheticFetcher_ShapeCompatible(t *testing.T) {
	fetcher := fleet.NewSyntheticFetcher(42, zerolog.Nop())
	locations := testLocations(3)

	results := fetcher.FetchAll(context.Background(), locations)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.True(t, result.Success)
		require.NotNil(t, result.Payload)
	}

	merged := fleet.Merge(results)
	assert.Equal(t, 3, merged.SuccessCount)
	assert.Zero(t, merged.FailCount)
	assert.NotEmpty(t, merged.Vehicles)

	for _, vehicle := range merged.Vehicles {
		assert.True(t, strings.HasPrefix(vehicle.ID, "SYN_"))
		assert.NotZero(t, vehicle.Lat)
		assert.NotZero(t, vehicle.Lng)
		assert.GreaterOrEqual(t, vehicle.Bearing, 0.0)
		assert.Less(t, vehicle.Bearing, 360.0)
		assert.NotEmpty(t, vehicle.CategoryName)
	}
}

// TestSyntheticFetcher_VehiclesPerLocation checks the per-location record
// count stays in the 5..15 band.
func TestSyntheticFetcher_VehiclesPerLocation(t *testing.T) {
	fetcher := fleet.NewSyntheticFetcher(7, zerolog.Nop())

	results := fetcher.FetchAll(context.Background(), testLocations(10))
	for _, result := range results {
		count := len(result.Payload.Groups["economy"])
		assert.GreaterOrEqual(t, count, 5)
		assert.LessOrEqual(t, count, 15)
	}
}
