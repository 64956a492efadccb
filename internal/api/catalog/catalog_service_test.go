package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetCategories(ctx context.Context) ([]types.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Category), args.Error(1)
}

func (m *MockCatalogRepository) GetCategoryByID(ctx context.Context, id int) (*types.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Category), args.Error(1)
}

func (m *MockCatalogRepository) GetActivePlaces(ctx context.Context, categoryIDs []int) ([]types.Place, error) {
	args := m.Called(ctx, categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func TestServiceImpl_ListCategoriesIsCached(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("GetCategories", mock.Anything).Return([]types.Category{{ID: 1, Name: "Музеи"}}, nil).Once()

	svc := NewServiceImpl(repo, time.Minute, testLogger())
	first, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	second, err := svc.ListCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetCategories", 1)
}

func TestServiceImpl_ActivePlaces(t *testing.T) {
	t.Run("cache key ignores id order", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		repo.On("GetActivePlaces", mock.Anything, []int{3, 1}).Return([]types.Place{{ID: 7}}, nil).Once()

		svc := NewServiceImpl(repo, time.Minute, testLogger())
		_, err := svc.ActivePlaces(context.Background(), []int{3, 1})
		require.NoError(t, err)
		places, err := svc.ActivePlaces(context.Background(), []int{1, 3})
		require.NoError(t, err)

		assert.Equal(t, 7, places[0].ID)
		repo.AssertNumberOfCalls(t, "GetActivePlaces", 1)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		repo.On("GetActivePlaces", mock.Anything, []int(nil)).Return(nil, errors.New("db down")).Twice()

		svc := NewServiceImpl(repo, time.Minute, testLogger())
		_, err := svc.ActivePlaces(context.Background(), nil)
		assert.Error(t, err)
		_, err = svc.ActivePlaces(context.Background(), nil)
		assert.Error(t, err)
		repo.AssertExpectations(t)
	})
}

func TestHandlerImpl(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("GetCategories", mock.Anything).Return([]types.Category{
		{ID: 1, Name: "Музеи", AvgVisitDuration: 60, PlacesCount: 2},
		{ID: 2, Name: "Парки", AvgVisitDuration: 45},
	}, nil)
	repo.On("GetCategoryByID", mock.Anything, 1).Return(&types.Category{ID: 1, Name: "Музеи"}, nil)
	repo.On("GetCategoryByID", mock.Anything, 99).Return(nil, ErrCategoryNotFound)

	h := NewHandlerImpl(NewServiceImpl(repo, time.Minute, testLogger()), testLogger())
	r := chi.NewRouter()
	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/categories/{id}", h.GetCategory)

	t.Run("list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var body types.CategoriesResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Total)
		assert.Equal(t, 2, body.Categories[0].PlacesCount)
	})

	t.Run("get by id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories/1", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Музеи")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories/99", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), `"detail":"Category not found"`)
	})

	t.Run("non-numeric id is 422", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories/abc", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}
