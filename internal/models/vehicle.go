package models

// Vehicle is a single deduplicated vehicle sighting. SourceLocation is the
// vantage point the sighting was first observed through in the current cycle.
type Vehicle struct {
	ID             string   `json:"id"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Bearing        float64  `json:"bearing"`
	IconURL        string   `json:"icon_url,omitempty"`
	CategoryID     string   `json:"category_id"`
	CategoryName   string   `json:"category_name"`
	SourceLocation Location `json:"source_location"`
}
