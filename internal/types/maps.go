package types

type MapsConfig struct {
	APIKey string     `json:"api_key"`
	Center [2]float64 `json:"center"`
	Zoom   int        `json:"zoom"`
}

type GeocodeRequest struct {
	Address string `json:"address"`
}

type GeocodeResponse struct {
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
}

type SuggestionsRequest struct {
	Query string `json:"query"`
}

type Suggestion struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Address  string `json:"address,omitempty"`
	URI      string `json:"uri,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}
