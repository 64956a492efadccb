package types

type StatsAverages struct {
	PlacesPerRoute  float64 `json:"places_per_route"`
	DistanceKm      float64 `json:"distance_km"`
	TimeMinutes     float64 `json:"time_minutes"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
}

type PopularInterest struct {
	Interest string `json:"interest"`
	Count    int64  `json:"count"`
}

type PopularLocation struct {
	Address string `json:"address"`
	Count   int64  `json:"count"`
}

// UsageStats is the body of GET /api/stats. Averages cover successful requests only.
type UsageStats struct {
	TotalRequests     int64             `json:"total_requests"`
	RecentRequests24h int64             `json:"recent_requests_24h"`
	FailedRequests    int64             `json:"failed_requests"`
	Averages          StatsAverages     `json:"averages"`
	PopularInterests  []PopularInterest `json:"popular_interests"`
	PopularLocations  []PopularLocation `json:"popular_locations"`
}

type CategoryUsage struct {
	CategoryID int    `json:"category_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	UsageCount int64  `json:"usage_count"`
}

type CategoryUsageResponse struct {
	Categories []CategoryUsage `json:"categories"`
	Total      int             `json:"total"`
}
