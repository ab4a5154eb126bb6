package models

// RawVehicle is one undeduplicated vehicle record as decoded from the
// upstream search response. Lat and Lng are pointers so a missing or null
// coordinate is distinguishable from a real value.
type RawVehicle struct {
	ID      string   `json:"id"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Bearing float64  `json:"bearing"`
	IconID  string   `json:"icon_id,omitempty"`
}

// CategoryIcon is the payload-local icon lookup entry for a category.
type CategoryIcon struct {
	IconURL string `json:"icon_url"`
}

// CategoryDetail is the payload-local display metadata for a category.
type CategoryDetail struct {
	Name string `json:"name"`
}

// VehiclePayload is the typed intermediate produced by decoding one upstream
// response. Groups maps a category id to the raw vehicle records seen for it;
// categories whose record list could not be decoded are absent.
type VehiclePayload struct {
	Groups     map[string][]RawVehicle
	Icons      map[string]CategoryIcon
	Categories map[string]CategoryDetail
}
