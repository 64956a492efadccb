package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/config"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testAssembler() *Assembler {
	return NewAssembler(config.RouteConfig{DefaultVisitMinutes: 30, DefaultDistanceKm: 0.5, MapZoom: 13})
}

func TestAssembler_Assemble(t *testing.T) {
	user := types.UserLocation{Address: "пл. Минина", Latitude: 56.3269, Longitude: 44.0059}
	places := []types.CandidatePlace{
		{
			PlaceID: 3, Title: "Кремль", Category: types.CategoryRef{ID: 5, Name: "Музеи"},
			Coordinates:   &types.Coordinates{Latitude: 56.328, Longitude: 44.002},
			VisitDuration: intPtr(60), DistanceFromUser: floatPtr(1.0),
		},
		{
			PlaceID: 0, Title: "Кофейня", Category: OtherCategory,
			DistanceFromUser: floatPtr(-2),
		},
		{
			PlaceID: 7, Title: "Набережная", Category: types.CategoryRef{ID: 2, Name: "Парки"},
			Coordinates:   &types.Coordinates{Latitude: 56.330, Longitude: 44.010},
			VisitDuration: intPtr(45), DistanceFromUser: floatPtr(1.76),
		},
		{
			PlaceID: 8, Title: "Музей", Category: types.CategoryRef{ID: 5, Name: "Музеи"},
			Coordinates:   &types.Coordinates{},
			VisitDuration: intPtr(0), DistanceFromUser: floatPtr(0),
		},
	}

	got := testAssembler().Assemble(places, user)

	assert.Equal(t, []int{3, 0, 7, 8}, got.RouteOrder)
	assert.Equal(t, 4, got.TotalPlaces)
	assert.Equal(t, 60+30+45+0, got.VisitTimeMinutes)
	assert.Equal(t, 3.26, got.TotalDistanceKm)
	assert.Equal(t, 43, got.WalkingTimeMinutes)
	assert.Equal(t, got.VisitTimeMinutes+got.WalkingTimeMinutes, got.TotalTimeMinutes)
	assert.Equal(t, []int{2, 5}, got.SelectedCategories)
	assert.InDelta(t, 56.329, got.MapCenter[0], 1e-9)
	assert.InDelta(t, 44.006, got.MapCenter[1], 1e-9)
	assert.Equal(t, types.MapData{Center: got.MapCenter, Zoom: 13}, got.MapData)

	require.NotNil(t, got.Places[1].VisitDuration)
	assert.Equal(t, 30, *got.Places[1].VisitDuration)
	assert.Equal(t, 0.5, *got.Places[1].DistanceFromUser)
	assert.Nil(t, places[1].VisitDuration, "input slice is not modified")
}

func TestAssembler_Empty(t *testing.T) {
	user := types.UserLocation{Latitude: 56.3269, Longitude: 44.0059}
	got := testAssembler().Assemble(nil, user)

	assert.Empty(t, got.Places)
	assert.Empty(t, got.RouteOrder)
	assert.NotNil(t, got.SelectedCategories)
	assert.Equal(t, 0, got.TotalTimeMinutes)
	assert.Equal(t, 0, got.WalkingTimeMinutes)
	assert.Equal(t, [2]float64{56.3269, 44.0059}, got.MapCenter)
}

func TestAssembler_TotalTimeIsVisitPlusWalking(t *testing.T) {
	for _, d := range []float64{0.01, 0.33, 1.5, 2.249, 7.77} {
		got := testAssembler().Assemble([]types.CandidatePlace{
			{PlaceID: 1, DistanceFromUser: floatPtr(d), VisitDuration: intPtr(20)},
		}, types.UserLocation{})
		assert.Equal(t, got.VisitTimeMinutes+got.WalkingTimeMinutes, got.TotalTimeMinutes)
		assert.Len(t, got.RouteOrder, len(got.Places))
		assert.GreaterOrEqual(t, got.TotalDistanceKm, 0.0)
	}
}

func TestAssembler_ZeroVisitDurationIsKept(t *testing.T) {
	got := testAssembler().Assemble([]types.CandidatePlace{
		{PlaceID: 1, VisitDuration: intPtr(0), DistanceFromUser: floatPtr(0)},
		{PlaceID: 2, VisitDuration: intPtr(-5), DistanceFromUser: floatPtr(0)},
	}, types.UserLocation{})

	require.Len(t, got.Places, 2)
	assert.Equal(t, 0, *got.Places[0].VisitDuration)
	assert.Equal(t, 30, *got.Places[1].VisitDuration)
	assert.Equal(t, 30, got.VisitTimeMinutes)
	assert.Equal(t, 0, got.WalkingTimeMinutes)
	assert.Equal(t, 30, got.TotalTimeMinutes)
}
