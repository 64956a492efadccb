package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	database "github.com/FACorreiaa/go-tourist-routes/app/db"
	"github.com/FACorreiaa/go-tourist-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

var _ Repository = (*PostgresAuditRepo)(nil)

type Repository interface {
	SaveRequest(ctx context.Context, record types.AuditRecord) error
	CountRequests(ctx context.Context) (total, recent24h, failed int64, err error)
	Averages(ctx context.Context) (types.StatsAverages, error)
	PopularInterests(ctx context.Context, limit int) ([]types.PopularInterest, error)
	PopularLocations(ctx context.Context, limit int) ([]types.PopularLocation, error)
	CategoryUsage(ctx context.Context) ([]types.CategoryUsage, error)
}

type PostgresAuditRepo struct {
	logger  *slog.Logger
	pgpool  database.Pool
	metrics *metrics.AppMetrics
}

func NewPostgresAuditRepo(pgpool database.Pool, m *metrics.AppMetrics, logger *slog.Logger) *PostgresAuditRepo {
	return &PostgresAuditRepo{
		logger:  logger,
		pgpool:  pgpool,
		metrics: m,
	}
}

const insertRequestQuery = `
	INSERT INTO user_requests (
		request_id, user_interests, available_hours, user_address, user_latitude, user_longitude,
		selected_category_ids, selected_places_ids, route_order,
		total_places, total_distance_km, total_time_minutes,
		categories_response, route_response,
		success, failed_stage, error_message, execution_time_ms,
		ip_address, user_agent
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9,
		$10, $11, $12,
		NULLIF($13, ''), NULLIF($14, ''),
		$15, NULLIF($16, ''), NULLIF($17, ''), $18,
		NULLIF($19, '')::inet, NULLIF($20, '')
	)`

func (r *PostgresAuditRepo) SaveRequest(ctx context.Context, rec types.AuditRecord) error {
	defer r.observe(ctx, "save_request", time.Now())

	_, err := r.pgpool.Exec(ctx, insertRequestQuery,
		rec.RequestID, rec.UserInterests, rec.AvailableHours, rec.UserAddress, rec.UserLatitude, rec.UserLongitude,
		nonNil(rec.SelectedCategoryIDs), nonNil(rec.SelectedPlaceIDs), nonNil(rec.RouteOrder),
		rec.TotalPlaces, rec.TotalDistanceKm, rec.TotalTimeMinutes,
		rec.CategoriesResponse, rec.RouteResponse,
		rec.Success, rec.FailedStage, rec.ErrorMessage, rec.ExecutionTimeMs,
		rec.IPAddress, rec.UserAgent,
	)
	if err != nil {
		r.recordError(ctx, "save_request")
		return fmt.Errorf("failed to insert user request: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepo) CountRequests(ctx context.Context) (total, recent24h, failed int64, err error) {
	defer r.observe(ctx, "count_requests", time.Now())

	err = r.pgpool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '24 hours'),
		       COUNT(*) FILTER (WHERE NOT success)
		FROM user_requests`).Scan(&total, &recent24h, &failed)
	if err != nil {
		r.recordError(ctx, "count_requests")
		return 0, 0, 0, fmt.Errorf("failed to count user requests: %w", err)
	}
	return total, recent24h, failed, nil
}

func (r *PostgresAuditRepo) Averages(ctx context.Context) (types.StatsAverages, error) {
	defer r.observe(ctx, "averages", time.Now())

	var avg types.StatsAverages
	err := r.pgpool.QueryRow(ctx, `
		SELECT COALESCE(AVG(total_places), 0)::float8,
		       COALESCE(AVG(total_distance_km), 0)::float8,
		       COALESCE(AVG(total_time_minutes), 0)::float8,
		       COALESCE(AVG(execution_time_ms), 0)::float8
		FROM user_requests
		WHERE success`).Scan(&avg.PlacesPerRoute, &avg.DistanceKm, &avg.TimeMinutes, &avg.ExecutionTimeMs)
	if err != nil {
		r.recordError(ctx, "averages")
		return types.StatsAverages{}, fmt.Errorf("failed to compute request averages: %w", err)
	}
	return avg, nil
}

func (r *PostgresAuditRepo) PopularInterests(ctx context.Context, limit int) ([]types.PopularInterest, error) {
	defer r.observe(ctx, "popular_interests", time.Now())

	rows, err := r.pgpool.Query(ctx, `
		SELECT user_interests, COUNT(*) AS cnt
		FROM user_requests
		GROUP BY user_interests
		ORDER BY cnt DESC, user_interests
		LIMIT $1`, limit)
	if err != nil {
		r.recordError(ctx, "popular_interests")
		return nil, fmt.Errorf("failed to query popular interests: %w", err)
	}
	defer rows.Close()

	interests := []types.PopularInterest{}
	for rows.Next() {
		var p types.PopularInterest
		if err := rows.Scan(&p.Interest, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan popular interest: %w", err)
		}
		interests = append(interests, p)
	}
	return interests, rows.Err()
}

func (r *PostgresAuditRepo) PopularLocations(ctx context.Context, limit int) ([]types.PopularLocation, error) {
	defer r.observe(ctx, "popular_locations", time.Now())

	rows, err := r.pgpool.Query(ctx, `
		SELECT user_address, COUNT(*) AS cnt
		FROM user_requests
		WHERE user_address <> ''
		GROUP BY user_address
		ORDER BY cnt DESC, user_address
		LIMIT $1`, limit)
	if err != nil {
		r.recordError(ctx, "popular_locations")
		return nil, fmt.Errorf("failed to query popular locations: %w", err)
	}
	defer rows.Close()

	locations := []types.PopularLocation{}
	for rows.Next() {
		var p types.PopularLocation
		if err := rows.Scan(&p.Address, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan popular location: %w", err)
		}
		locations = append(locations, p)
	}
	return locations, rows.Err()
}

func (r *PostgresAuditRepo) CategoryUsage(ctx context.Context) ([]types.CategoryUsage, error) {
	defer r.observe(ctx, "category_usage", time.Now())

	rows, err := r.pgpool.Query(ctx, `
		SELECT c.id, c.name, COALESCE(c.icon, ''), COUNT(ur.id) AS usage_count
		FROM categories c
		LEFT JOIN user_requests ur ON c.id = ANY(ur.selected_category_ids)
		GROUP BY c.id
		ORDER BY usage_count DESC, c.id`)
	if err != nil {
		r.recordError(ctx, "category_usage")
		return nil, fmt.Errorf("failed to query category usage: %w", err)
	}
	defer rows.Close()

	usage := []types.CategoryUsage{}
	for rows.Next() {
		var u types.CategoryUsage
		if err := rows.Scan(&u.CategoryID, &u.Name, &u.Icon, &u.UsageCount); err != nil {
			return nil, fmt.Errorf("failed to scan category usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func (r *PostgresAuditRepo) observe(ctx context.Context, query string, start time.Time) {
	r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", query)))
}

func (r *PostgresAuditRepo) recordError(ctx context.Context, query string) {
	r.metrics.DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", query)))
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
