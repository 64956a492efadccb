package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	database "github.com/FACorreiaa/go-tourist-routes/app/db"
	"github.com/FACorreiaa/go-tourist-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

var ErrCategoryNotFound = errors.New("category not found")

var _ Repository = (*PostgresCatalogRepo)(nil)

// Repository is the read-only view of the catalog store.
type Repository interface {
	GetCategories(ctx context.Context) ([]types.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*types.Category, error)
	// GetActivePlaces returns active places ordered by id; an empty filter means every category.
	GetActivePlaces(ctx context.Context, categoryIDs []int) ([]types.Place, error)
}

type PostgresCatalogRepo struct {
	logger  *slog.Logger
	pgpool  database.Pool
	metrics *metrics.AppMetrics
}

func NewPostgresCatalogRepo(pgpool database.Pool, m *metrics.AppMetrics, logger *slog.Logger) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{
		logger:  logger,
		pgpool:  pgpool,
		metrics: m,
	}
}

const categoriesQuery = `
	SELECT c.id, c.name, c.description, c.avg_visit_duration, c.keywords, COALESCE(c.icon, ''),
	       COUNT(p.id) FILTER (WHERE p.is_active) AS places_count
	FROM categories c
	LEFT JOIN places p ON p.category_id = c.id
	GROUP BY c.id
	ORDER BY c.id`

const categoryByIDQuery = `
	SELECT c.id, c.name, c.description, c.avg_visit_duration, c.keywords, COALESCE(c.icon, ''),
	       COUNT(p.id) FILTER (WHERE p.is_active) AS places_count
	FROM categories c
	LEFT JOIN places p ON p.category_id = c.id
	WHERE c.id = $1
	GROUP BY c.id`

const activePlacesQuery = `
	SELECT p.id, p.title, p.address, p.latitude::float8, p.longitude::float8,
	       COALESCE(NULLIF(p.description_clean, ''), p.description),
	       p.category_id, COALESCE(c.avg_visit_duration, 30), COALESCE(p.url, '')
	FROM places p
	LEFT JOIN categories c ON c.id = p.category_id
	WHERE p.is_active = TRUE
	  AND ($1::int[] IS NULL OR p.category_id = ANY($1::int[]))
	ORDER BY p.id`

func (r *PostgresCatalogRepo) GetCategories(ctx context.Context) ([]types.Category, error) {
	defer r.observe(ctx, "get_categories", time.Now())

	rows, err := r.pgpool.Query(ctx, categoriesQuery)
	if err != nil {
		r.recordError(ctx, "get_categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.AvgVisitDuration, &c.Keywords, &c.Icon, &c.PlacesCount); err != nil {
			r.recordError(ctx, "get_categories")
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		r.recordError(ctx, "get_categories")
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *PostgresCatalogRepo) GetCategoryByID(ctx context.Context, id int) (*types.Category, error) {
	defer r.observe(ctx, "get_category", time.Now())

	var c types.Category
	err := r.pgpool.QueryRow(ctx, categoryByIDQuery, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.AvgVisitDuration, &c.Keywords, &c.Icon, &c.PlacesCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		r.recordError(ctx, "get_category")
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return &c, nil
}

func (r *PostgresCatalogRepo) GetActivePlaces(ctx context.Context, categoryIDs []int) ([]types.Place, error) {
	defer r.observe(ctx, "get_active_places", time.Now())

	var filter []int
	if len(categoryIDs) > 0 {
		filter = categoryIDs
	}
	rows, err := r.pgpool.Query(ctx, activePlacesQuery, filter)
	if err != nil {
		r.recordError(ctx, "get_active_places")
		return nil, fmt.Errorf("failed to query active places: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(&p.ID, &p.Title, &p.Address, &p.Latitude, &p.Longitude,
			&p.Description, &p.CategoryID, &p.AvgVisitDuration, &p.URL); err != nil {
			r.recordError(ctx, "get_active_places")
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		r.recordError(ctx, "get_active_places")
		return nil, fmt.Errorf("error iterating place rows: %w", err)
	}
	r.logger.DebugContext(ctx, "Loaded active places", slog.Int("count", len(places)), slog.Any("category_ids", filter))
	return places, nil
}

func (r *PostgresCatalogRepo) observe(ctx context.Context, query string, start time.Time) {
	r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", query)))
}

func (r *PostgresCatalogRepo) recordError(ctx context.Context, query string) {
	r.metrics.DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", query)))
}
