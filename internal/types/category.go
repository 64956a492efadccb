package types

// Category is catalog reference data; rows are seeded, never written by the route pipeline.
type Category struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	AvgVisitDuration int      `json:"avg_visit_duration"`
	Keywords         []string `json:"keywords"`
	Icon             string   `json:"icon,omitempty"`
	PlacesCount      int      `json:"places_count"`
}

// CategoryRef is the {id, name} pair attached to route places.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoriesResponse is the body of GET /api/categories.
type CategoriesResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}
