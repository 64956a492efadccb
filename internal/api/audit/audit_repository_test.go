package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPostgresAuditRepo_SaveRequest(t *testing.T) {
	t.Run("failed attempt stores stage and empty id arrays", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		rec := types.AuditRecord{
			RequestID:      uuid.New(),
			UserInterests:  "музеи и парки",
			AvailableHours: 3,
			UserAddress:    "пл. Минина",
			UserLatitude:   56.3269,
			UserLongitude:  44.0059,
			Success:        false,
			FailedStage:    "CategoriesPrompted",
			ErrorMessage:   "upstream service unavailable",
			IPAddress:      "10.0.0.1",
			UserAgent:      "curl/8",
		}
		mockPool.ExpectExec("INSERT INTO user_requests").
			WithArgs(
				rec.RequestID, rec.UserInterests, rec.AvailableHours, rec.UserAddress, rec.UserLatitude, rec.UserLongitude,
				[]int{}, []int{}, []int{},
				0, 0.0, 0,
				"", "",
				false, "CategoriesPrompted", "upstream service unavailable", int64(0),
				"10.0.0.1", "curl/8",
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = NewPostgresAuditRepo(mockPool, metrics.Noop(), testLogger()).SaveRequest(context.Background(), rec)
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("exec error is wrapped", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		dbErr := errors.New("insert failed")
		anyArgs := make([]any, 20)
		for i := range anyArgs {
			anyArgs[i] = pgxmock.AnyArg()
		}
		mockPool.ExpectExec("INSERT INTO user_requests").
			WithArgs(anyArgs...).
			WillReturnError(dbErr)

		err = NewPostgresAuditRepo(mockPool, metrics.Noop(), testLogger()).SaveRequest(context.Background(), types.AuditRecord{})
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to insert user request")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAuditRepo_Counts(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("FROM user_requests").
		WillReturnRows(pgxmock.NewRows([]string{"total", "recent", "failed"}).AddRow(int64(12), int64(3), int64(1)))

	total, recent, failed, err := NewPostgresAuditRepo(mockPool, metrics.Noop(), testLogger()).CountRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, int64(3), recent)
	assert.Equal(t, int64(1), failed)
}

func TestPostgresAuditRepo_CategoryUsage(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("ANY\\(ur.selected_category_ids\\)").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "icon", "usage_count"}).
			AddRow(1, "Музеи", "", int64(7)).
			AddRow(2, "Парки", "", int64(0)))

	usage, err := NewPostgresAuditRepo(mockPool, metrics.Noop(), testLogger()).CategoryUsage(context.Background())
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, int64(7), usage[0].UsageCount)
	assert.Equal(t, "Парки", usage[1].Name)
}
