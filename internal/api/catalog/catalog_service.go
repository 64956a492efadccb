package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the catalog lookup consumed by the route pipeline and the category endpoints.
type Service interface {
	ListCategories(ctx context.Context) ([]types.Category, error)
	GetCategory(ctx context.Context, id int) (*types.Category, error)
	ActivePlaces(ctx context.Context, categoryIDs []int) ([]types.Place, error)
}

const categoriesCacheKey = "categories"

// ServiceImpl serves catalog reads from a short-lived in-memory cache.
type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewServiceImpl(repo Repository, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (s *ServiceImpl) ListCategories(ctx context.Context) ([]types.Category, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "ListCategories")
	defer span.End()

	if cached, found := s.cache.Get(categoriesCacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.Category), nil
	}

	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load categories", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load categories")
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	s.cache.Set(categoriesCacheKey, categories, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "categories loaded")
	return categories, nil
}

func (s *ServiceImpl) GetCategory(ctx context.Context, id int) (*types.Category, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "GetCategory", trace.WithAttributes(
		attribute.Int("category.id", id),
	))
	defer span.End()

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return category, nil
}

func (s *ServiceImpl) ActivePlaces(ctx context.Context, categoryIDs []int) ([]types.Place, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "ActivePlaces", trace.WithAttributes(
		attribute.IntSlice("category.ids", categoryIDs),
	))
	defer span.End()

	key := placesCacheKey(categoryIDs)
	if cached, found := s.cache.Get(key); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.Place), nil
	}

	places, err := s.repo.GetActivePlaces(ctx, categoryIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load active places", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load places")
		return nil, fmt.Errorf("failed to load active places: %w", err)
	}
	s.cache.Set(key, places, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "places loaded")
	return places, nil
}

func placesCacheKey(categoryIDs []int) string {
	ids := slices.Clone(categoryIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "places:" + strings.Join(parts, ",")
}
