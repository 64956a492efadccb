package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

func testCategories() []types.Category {
	return []types.Category{
		{ID: 1, Name: "Музеи", AvgVisitDuration: 60},
		{ID: 2, Name: "Парки", AvgVisitDuration: 45},
		{ID: 3, Name: "Набережные", AvgVisitDuration: 30},
	}
}

func TestSubstringMatcher_Match(t *testing.T) {
	m := BuildCategoryIndex(testCategories())

	assert.Equal(t, types.CategoryRef{ID: 1, Name: "Музеи"}, m.Match("Музей современного искусства"))
	assert.Equal(t, types.CategoryRef{ID: 2, Name: "Парки"}, m.Match("ПАРКИ и скверы"))
	assert.Equal(t, OtherCategory, m.Match("Кафе"))
	assert.Equal(t, OtherCategory, m.Match(""))
}

func TestSubstringMatcher_FirstMatchWins(t *testing.T) {
	m := BuildCategoryIndex([]types.Category{
		{ID: 4, Name: "Парки"},
		{ID: 5, Name: "Музеи"},
		{ID: 6, Name: ""},
	})
	assert.Equal(t, 4, m.Match("Парки и музеи").ID)
}

func TestExactTitleResolver(t *testing.T) {
	r := NewExactTitleResolver([]types.Place{
		{ID: 10, Title: "Нижегородский кремль"},
		{ID: 11, Title: "нижегородский кремль"},
	})

	p, ok := r.Resolve("  НИЖЕГОРОДСКИЙ КРЕМЛЬ ")
	require.True(t, ok)
	assert.Equal(t, 10, p.ID)

	_, ok = r.Resolve("Нижегородский кремль!")
	assert.False(t, ok)
}

func TestReconciler_Reconcile(t *testing.T) {
	places := []types.Place{
		{ID: 10, Title: "Нижегородский кремль", Address: "Кремль, 1", Latitude: 56.328, Longitude: 44.002},
	}
	rec := NewReconciler(BuildCategoryIndex(testCategories()), NewExactTitleResolver(places))

	out := rec.Reconcile([]ProposedPlace{
		{
			Title:         "Нижегородский кремль",
			Category:      ProposedCategory{Name: "Музей"},
			VisitDuration: looseNumber{Value: 90, Set: true},
		},
		{
			Title:            "Кофейня у реки",
			Address:          "Рождественская, 5",
			Category:         ProposedCategory{Name: "Кафе"},
			DistanceFromUser: looseNumber{Value: 0.7, Set: true},
		},
	})
	require.Len(t, out, 2)

	assert.Equal(t, 10, out[0].PlaceID)
	assert.Equal(t, "Кремль, 1", out[0].Address)
	require.NotNil(t, out[0].Coordinates)
	assert.Equal(t, 56.328, out[0].Coordinates.Latitude)
	require.NotNil(t, out[0].VisitDuration)
	assert.Equal(t, 90, *out[0].VisitDuration)
	assert.Nil(t, out[0].DistanceFromUser)
	assert.Equal(t, types.CategoryRef{ID: 1, Name: "Музеи"}, out[0].Category)

	assert.Equal(t, 0, out[1].PlaceID)
	assert.Nil(t, out[1].Coordinates)
	assert.Equal(t, OtherCategory, out[1].Category)
	require.NotNil(t, out[1].DistanceFromUser)
	assert.Equal(t, 0.7, *out[1].DistanceFromUser)
}
