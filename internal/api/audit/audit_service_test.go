package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveRequest(ctx context.Context, record types.AuditRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockAuditRepository) CountRequests(ctx context.Context) (int64, int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func (m *MockAuditRepository) Averages(ctx context.Context) (types.StatsAverages, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.StatsAverages), args.Error(1)
}

func (m *MockAuditRepository) PopularInterests(ctx context.Context, limit int) ([]types.PopularInterest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PopularInterest), args.Error(1)
}

func (m *MockAuditRepository) PopularLocations(ctx context.Context, limit int) ([]types.PopularLocation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PopularLocation), args.Error(1)
}

func (m *MockAuditRepository) CategoryUsage(ctx context.Context) ([]types.CategoryUsage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CategoryUsage), args.Error(1)
}

func TestServiceImpl_Stats(t *testing.T) {
	t.Run("aggregates and rounds", func(t *testing.T) {
		repo := new(MockAuditRepository)
		repo.On("CountRequests", mock.Anything).Return(int64(10), int64(4), int64(2), nil)
		repo.On("Averages", mock.Anything).Return(types.StatsAverages{
			PlacesPerRoute: 3.3333, DistanceKm: 2.456, TimeMinutes: 151.0049, ExecutionTimeMs: 4210.5,
		}, nil)
		repo.On("PopularInterests", mock.Anything, 10).Return([]types.PopularInterest{{Interest: "музеи", Count: 5}}, nil)
		repo.On("PopularLocations", mock.Anything, 10).Return([]types.PopularLocation{{Address: "пл. Минина", Count: 3}}, nil)

		stats, err := NewServiceImpl(repo, testLogger()).Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(10), stats.TotalRequests)
		assert.Equal(t, int64(4), stats.RecentRequests24h)
		assert.Equal(t, int64(2), stats.FailedRequests)
		assert.Equal(t, 3.33, stats.Averages.PlacesPerRoute)
		assert.Equal(t, 2.46, stats.Averages.DistanceKm)
		assert.Equal(t, 151.0, stats.Averages.TimeMinutes)
		assert.Equal(t, "музеи", stats.PopularInterests[0].Interest)
		assert.Equal(t, "пл. Минина", stats.PopularLocations[0].Address)
	})

	t.Run("any failing query fails the whole result", func(t *testing.T) {
		repo := new(MockAuditRepository)
		repo.On("CountRequests", mock.Anything).Return(int64(0), int64(0), int64(0), errors.New("timeout"))
		repo.On("Averages", mock.Anything).Return(types.StatsAverages{}, nil).Maybe()
		repo.On("PopularInterests", mock.Anything, 10).Return([]types.PopularInterest{}, nil).Maybe()
		repo.On("PopularLocations", mock.Anything, 10).Return([]types.PopularLocation{}, nil).Maybe()

		_, err := NewServiceImpl(repo, testLogger()).Stats(context.Background())
		assert.Error(t, err)
	})
}

func TestHandlerImpl_CategoryStats(t *testing.T) {
	repo := new(MockAuditRepository)
	repo.On("CategoryUsage", mock.Anything).Return([]types.CategoryUsage{
		{CategoryID: 1, Name: "Музеи", UsageCount: 7},
		{CategoryID: 2, Name: "Парки", UsageCount: 1},
	}, nil)

	h := NewHandlerImpl(NewServiceImpl(repo, testLogger()), testLogger())
	rr := httptest.NewRecorder()
	h.CategoryStats(rr, httptest.NewRequest(http.MethodGet, "/api/stats/categories", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body types.CategoryUsageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, int64(7), body.Categories[0].UsageCount)
}

func TestServiceImpl_RecordPropagatesError(t *testing.T) {
	repo := new(MockAuditRepository)
	repo.On("SaveRequest", mock.Anything, mock.AnythingOfType("types.AuditRecord")).Return(errors.New("db down"))

	err := NewServiceImpl(repo, testLogger()).Record(context.Background(), types.AuditRecord{})
	assert.Error(t, err)
}
