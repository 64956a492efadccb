package types

// Place is an active catalog row as consumed by prompt construction.
// AvgVisitDuration is joined from the place's category (30 when uncategorised).
type Place struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Description      string  `json:"description"`
	CategoryID       *int    `json:"category_id"`
	AvgVisitDuration int     `json:"avg_visit_duration"`
	URL              string  `json:"url,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether the point is the (0, 0) placeholder.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}
