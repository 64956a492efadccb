package types

import (
	"strings"
)

type UserLocation struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UserInterestRequest is the body of POST /api/route/generate.
type UserInterestRequest struct {
	UserInterests      string       `json:"user_interests"`
	AvailableTimeHours int          `json:"available_time_hours"`
	UserLocation       UserLocation `json:"user_location"`
}

// FieldError describes one invalid field of an inbound request.
type FieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// Validate checks the bounds the route pipeline relies on.
func (r UserInterestRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.UserInterests) == "" {
		errs = append(errs, FieldError{Loc: []string{"body", "user_interests"}, Msg: "must not be empty"})
	}
	if r.AvailableTimeHours < 1 || r.AvailableTimeHours > 8 {
		errs = append(errs, FieldError{Loc: []string{"body", "available_time_hours"}, Msg: "must be between 1 and 8"})
	}
	if r.UserLocation.Latitude < -90 || r.UserLocation.Latitude > 90 {
		errs = append(errs, FieldError{Loc: []string{"body", "user_location", "latitude"}, Msg: "must be between -90 and 90"})
	}
	if r.UserLocation.Longitude < -180 || r.UserLocation.Longitude > 180 {
		errs = append(errs, FieldError{Loc: []string{"body", "user_location", "longitude"}, Msg: "must be between -180 and 180"})
	}
	return errs
}

// CandidatePlace is one stop of a route after reconciliation.
// PlaceID is 0 when the title matched no catalog row; Category.ID is 0 for "Other".
// VisitDuration and DistanceFromUser stay nil until the assembler applies defaults.
type CandidatePlace struct {
	PlaceID          int          `json:"id"`
	Title            string       `json:"title"`
	Address          string       `json:"address"`
	Coordinates      *Coordinates `json:"coordinates"`
	Category         CategoryRef  `json:"category"`
	ProposedCategory string       `json:"-"`
	Description      string       `json:"description"`
	VisitDuration    *int         `json:"visit_duration"`
	DistanceFromUser *float64     `json:"distance_from_user"`
	Reasoning        string       `json:"reasoning,omitempty"`
}

// HasCoordinates reports whether the place carries a usable point.
func (p CandidatePlace) HasCoordinates() bool {
	return p.Coordinates != nil && !p.Coordinates.IsZero()
}

type MapData struct {
	Center [2]float64 `json:"center"`
	Zoom   int        `json:"zoom"`
}

// RouteResult is the assembled itinerary.
// TotalTimeMinutes always equals VisitTimeMinutes + WalkingTimeMinutes.
type RouteResult struct {
	Places             []CandidatePlace `json:"places"`
	RouteOrder         []int            `json:"route_order"`
	TotalPlaces        int              `json:"total_places"`
	TotalTimeMinutes   int              `json:"total_time_minutes"`
	TotalDistanceKm    float64          `json:"total_distance_km"`
	WalkingTimeMinutes int              `json:"walking_time_minutes"`
	VisitTimeMinutes   int              `json:"visit_time_minutes"`
	MapCenter          [2]float64       `json:"map_center"`
	SelectedCategories []int            `json:"selected_categories"`
	MapData            MapData          `json:"map_data"`
}

type RouteMetadata struct {
	SelectedCategories  []int  `json:"selected_categories"`
	FilteredPlacesCount int    `json:"filtered_places_count"`
	RequestID           string `json:"request_id"`
	ExecutionTimeMs     int64  `json:"execution_time_ms"`
	Strategy            string `json:"strategy"`
}

// RouteResponse is the body returned by POST /api/route/generate.
type RouteResponse struct {
	Route    RouteResult   `json:"route"`
	Metadata RouteMetadata `json:"metadata"`
}
