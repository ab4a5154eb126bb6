package models

// Location is a fixed vantage point the upstream API is polled from.
type Location struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	District    string  `json:"district,omitempty"`
	Type        string  `json:"type,omitempty"`
	Priority    int     `json:"priority,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}
