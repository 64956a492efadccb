package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/app/observability/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var categoryColumns = []string{"id", "name", "description", "avg_visit_duration", "keywords", "icon", "places_count"}

func TestPostgresCatalogRepo_GetCategories(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("FROM categories c").
		WillReturnRows(pgxmock.NewRows(categoryColumns).
			AddRow(1, "Музеи", "Музеи города", 60, []string{"музей", "история"}, "🏛", 12).
			AddRow(2, "Парки", "", 45, []string{}, "", 0))

	repo := NewPostgresCatalogRepo(mockPool, metrics.Noop(), testLogger())
	categories, err := repo.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, 1, categories[0].ID)
	assert.Equal(t, "Музеи", categories[0].Name)
	assert.Equal(t, 60, categories[0].AvgVisitDuration)
	assert.Equal(t, []string{"музей", "история"}, categories[0].Keywords)
	assert.Equal(t, 12, categories[0].PlacesCount)
	assert.Equal(t, "Парки", categories[1].Name)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresCatalogRepo_GetCategoryByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectQuery("WHERE c.id = \\$1").WithArgs(3).
			WillReturnRows(pgxmock.NewRows(categoryColumns).AddRow(3, "Храмы", "", 30, []string{}, "", 4))

		c, err := NewPostgresCatalogRepo(mockPool, metrics.Noop(), testLogger()).GetCategoryByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "Храмы", c.Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectQuery("WHERE c.id = \\$1").WithArgs(42).WillReturnError(pgx.ErrNoRows)

		_, err = NewPostgresCatalogRepo(mockPool, metrics.Noop(), testLogger()).GetCategoryByID(context.Background(), 42)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestPostgresCatalogRepo_GetActivePlaces(t *testing.T) {
	placeColumns := []string{"id", "title", "address", "latitude", "longitude", "description", "category_id", "avg_visit_duration", "url"}

	t.Run("returns rows in query order", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		museums := 1
		mockPool.ExpectQuery("FROM places p").WithArgs(pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(placeColumns).
				AddRow(10, "Нижегородский кремль", "Кремль, 1", 56.3287, 44.0020, "Крепость", &museums, 60, "").
				AddRow(11, "Без категории", "ул. Рождественская, 5", 56.33, 43.99, "", (*int)(nil), 30, ""))

		places, err := NewPostgresCatalogRepo(mockPool, metrics.Noop(), testLogger()).
			GetActivePlaces(context.Background(), []int{1})
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, 10, places[0].ID)
		require.NotNil(t, places[0].CategoryID)
		assert.Equal(t, 1, *places[0].CategoryID)
		assert.Equal(t, 60, places[0].AvgVisitDuration)
		assert.Nil(t, places[1].CategoryID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		dbErr := errors.New("connection reset")
		mockPool.ExpectQuery("FROM places p").WithArgs(pgxmock.AnyArg()).WillReturnError(dbErr)

		_, err = NewPostgresCatalogRepo(mockPool, metrics.Noop(), testLogger()).GetActivePlaces(context.Background(), nil)
		assert.ErrorIs(t, err, dbErr)
	})
}
