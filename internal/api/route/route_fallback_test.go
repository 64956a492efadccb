package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

func TestHaversineKm(t *testing.T) {
	assert.InDelta(t, 0, haversineKm(56.3269, 44.0059, 56.3269, 44.0059), 1e-9)
	// Nizhny Novgorod to Moscow
	assert.InDelta(t, 401, haversineKm(56.3269, 44.0059, 55.7558, 37.6173), 5)
}

func TestNearestPlacesStrategy_Select(t *testing.T) {
	museums := 1
	places := []types.Place{
		{ID: 1, Title: "Далёкий музей", Latitude: 55.7558, Longitude: 37.6173, CategoryID: &museums},
		{ID: 2, Title: "Кремль", Latitude: 56.3280, Longitude: 44.0020, CategoryID: &museums, AvgVisitDuration: 60},
		{ID: 3, Title: "Без координат"},
		{ID: 4, Title: "Покровка", Latitude: 56.3200, Longitude: 44.0000, AvgVisitDuration: 45},
		{ID: 5, Title: "Набережная", Latitude: 56.3300, Longitude: 44.0100},
	}
	user := types.UserLocation{Latitude: 56.3269, Longitude: 44.0059}
	s := NearestPlacesStrategy{RadiusKm: 20, MaxPlaces: 4, DefaultVisitMinutes: 30}

	got := s.Select(places, testCategories(), user, 8)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].PlaceID)
	assert.Equal(t, types.CategoryRef{ID: 1, Name: "Музеи"}, got[0].Category)
	assert.Equal(t, 60, *got[0].VisitDuration)
	for _, p := range got {
		assert.NotEqual(t, 1, p.PlaceID)
		assert.NotEqual(t, 3, p.PlaceID)
		assert.True(t, p.HasCoordinates())
	}
	assert.Equal(t, OtherCategory, got[1].Category)
}

func TestNearestPlacesStrategy_TimeBudget(t *testing.T) {
	places := []types.Place{
		{ID: 1, Title: "A", Latitude: 56.3270, Longitude: 44.0060, AvgVisitDuration: 50},
		{ID: 2, Title: "B", Latitude: 56.3271, Longitude: 44.0061, AvgVisitDuration: 50},
	}
	s := NearestPlacesStrategy{RadiusKm: 20, MaxPlaces: 4, DefaultVisitMinutes: 30}

	got := s.Select(places, nil, types.UserLocation{Latitude: 56.3269, Longitude: 44.0059}, 1)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].PlaceID)
}
