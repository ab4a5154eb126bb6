package fleet

import (
	"github.com/prasertsri/fleet-radar/internal/models"
)

const unknownCategoryName = "Unknown"

// MergeResult is the flattened outcome of one batch of fetch results.
type MergeResult struct {
	Vehicles         []models.Vehicle
	SuccessCount     int
	FailCount        int
	SuccessLocations []models.Location
	FailedLocations  []models.Location
}

// Merge flattens a full per-location result set into one deduplicated vehicle
// list plus per-location accounting.
//
// Deduplication is batch-wide by vehicle id: the first record processed for a
// given id wins and later sightings from overlapping viewports are discarded.
// Which duplicate arrives first depends on fetch completion timing, so the
// winner is not deterministic across runs; only uniqueness is.
func Merge(results []models.FetchResult) MergeResult {
	merged := MergeResult{
		Vehicles:         []models.Vehicle{},
		SuccessLocations: []models.Location{},
		FailedLocations:  []models.Location{},
	}
	seen := make(map[string]struct{})

	for _, result := range results {
		if !result.Success {
			merged.FailCount++
			merged.FailedLocations = append(merged.FailedLocations, result.Location)
			continue
		}

		merged.SuccessCount++
		merged.SuccessLocations = append(merged.SuccessLocations, result.Location)

		if result.Payload == nil {
			continue
		}

		for categoryID, records := range result.Payload.Groups {
			for _, record := range records {
				if record.ID == "" {
					continue
				}
				if _, dup := seen[record.ID]; dup {
					continue
				}
				seen[record.ID] = struct{}{}

				// Records without usable coordinates are dropped, not
				// defaulted to zero. Zero is treated as the upstream's
				// missing-value sentinel.
				if record.Lat == nil || record.Lng == nil || *record.Lat == 0 || *record.Lng == 0 {
					continue
				}

				merged.Vehicles = append(merged.Vehicles, models.Vehicle{
					ID:             record.ID,
					Lat:            *record.Lat,
					Lng:            *record.Lng,
					Bearing:        record.Bearing,
					IconURL:        result.Payload.Icons[categoryID].IconURL,
					CategoryID:     categoryID,
					CategoryName:   categoryName(result.Payload, categoryID),
					SourceLocation: result.Location,
				})
			}
		}
	}

	return merged
}

func categoryName(payload *models.VehiclePayload, categoryID string) string {
	if detail, ok := payload.Categories[categoryID]; ok && detail.Name != "" {
		return detail.Name
	}
	return unknownCategoryName
}
