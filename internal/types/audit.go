package types

import "github.com/google/uuid"

// AuditRecord is one persisted route-generation attempt. Rows are insert-only.
type AuditRecord struct {
	RequestID           uuid.UUID
	UserInterests       string
	AvailableHours      int
	UserAddress         string
	UserLatitude        float64
	UserLongitude       float64
	SelectedCategoryIDs []int
	SelectedPlaceIDs    []int
	RouteOrder          []int
	TotalPlaces         int
	TotalDistanceKm     float64
	TotalTimeMinutes    int
	CategoriesResponse  string
	RouteResponse       string
	Success             bool
	FailedStage         string
	ErrorMessage        string
	ExecutionTimeMs     int64
	IPAddress           string
	UserAgent           string
}
