package bolt

import (
	"encoding/json"

	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/rs/zerolog"
)

// pollResponse mirrors the upstream search-poll response envelope. The
// category-to-vehicles mapping is kept as raw JSON so a single malformed
// category degrades to that category alone, never the whole response.
type pollResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Vehicles struct {
			Taxi  map[string]json.RawMessage `json:"taxi"`
			Icons struct {
				Taxi map[string]models.CategoryIcon `json:"taxi"`
			} `json:"icons"`
			CategoryDetails struct {
				Taxi map[string]models.CategoryDetail `json:"taxi"`
			} `json:"category_details"`
		} `json:"vehicles"`
	} `json:"data"`
}

// toPayload converts the wire envelope into the typed intermediate consumed
// by the merge step. Category groups that fail to decode as a record list are
// dropped here, so downstream code never sees untyped maps.
func (r *pollResponse) toPayload(logger zerolog.Logger) *models.VehiclePayload {
	payload := &models.VehiclePayload{
		Groups:     make(map[string][]models.RawVehicle, len(r.Data.Vehicles.Taxi)),
		Icons:      r.Data.Vehicles.Icons.Taxi,
		Categories: r.Data.Vehicles.CategoryDetails.Taxi,
	}

	for categoryID, raw := range r.Data.Vehicles.Taxi {
		var records []models.RawVehicle
		if err := json.Unmarshal(raw, &records); err != nil {
			logger.Debug().
				Err(err).
				Str("category_id", categoryID).
				Msg("Skipping category group with unexpected shape")
			continue
		}
		payload.Groups[categoryID] = records
	}

	return payload
}

// searchRequestBody is the JSON body sent to the search-poll endpoint.
type searchRequestBody struct {
	DestinationStops []any         `json:"destination_stops"`
	PaymentMethod    paymentMethod `json:"payment_method"`
	PickupStop       pickupStop    `json:"pickup_stop"`
	Stage            string        `json:"stage"`
	Viewport         viewport      `json:"viewport"`
}

type paymentMethod struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type pickupStop struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	PlaceID string  `json:"place_id"`
}

type viewport struct {
	NorthEast point `json:"north_east"`
	SouthWest point `json:"south_west"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// newSearchRequestBody centers the viewport bounding box on the pickup point
// with the configured padding on each side.
func newSearchRequestBody(loc models.Location, padding float64) searchRequestBody {
	return searchRequestBody{
		DestinationStops: []any{},
		PaymentMethod:    paymentMethod{ID: "cash", Type: "default"},
		PickupStop: pickupStop{
			Lat:     loc.Lat,
			Lng:     loc.Lng,
			Address: loc.DisplayName,
			PlaceID: "custom|" + loc.ID,
		},
		Stage: "overview",
		Viewport: viewport{
			NorthEast: point{Lat: loc.Lat + padding, Lng: loc.Lng + padding},
			SouthWest: point{Lat: loc.Lat - padding, Lng: loc.Lng - padding},
		},
	}
}
