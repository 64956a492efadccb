package audit

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

const popularLimit = 10

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Record persists one route-generation attempt.
	Record(ctx context.Context, record types.AuditRecord) error
	Stats(ctx context.Context) (*types.UsageStats, error)
	CategoryStats(ctx context.Context) (*types.CategoryUsageResponse, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) Record(ctx context.Context, record types.AuditRecord) error {
	ctx, span := otel.Tracer("AuditService").Start(ctx, "Record", trace.WithAttributes(
		attribute.String("request.id", record.RequestID.String()),
		attribute.Bool("request.success", record.Success),
	))
	defer span.End()

	if err := s.repo.SaveRequest(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save audit record",
			slog.String("request_id", record.RequestID.String()),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return err
	}
	span.SetStatus(codes.Ok, "audit record saved")
	return nil
}

// Stats runs the aggregate queries concurrently.
func (s *ServiceImpl) Stats(ctx context.Context) (*types.UsageStats, error) {
	ctx, span := otel.Tracer("AuditService").Start(ctx, "Stats")
	defer span.End()

	var stats types.UsageStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalRequests, stats.RecentRequests24h, stats.FailedRequests, err = s.repo.CountRequests(gctx)
		return err
	})
	g.Go(func() error {
		avg, err := s.repo.Averages(gctx)
		if err != nil {
			return err
		}
		stats.Averages = types.StatsAverages{
			PlacesPerRoute:  round2(avg.PlacesPerRoute),
			DistanceKm:      round2(avg.DistanceKm),
			TimeMinutes:     round2(avg.TimeMinutes),
			ExecutionTimeMs: round2(avg.ExecutionTimeMs),
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats.PopularInterests, err = s.repo.PopularInterests(gctx, popularLimit)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PopularLocations, err = s.repo.PopularLocations(gctx, popularLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to compute usage statistics", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats failed")
		return nil, fmt.Errorf("failed to compute usage statistics: %w", err)
	}

	span.SetStatus(codes.Ok, "stats computed")
	return &stats, nil
}

func (s *ServiceImpl) CategoryStats(ctx context.Context) (*types.CategoryUsageResponse, error) {
	ctx, span := otel.Tracer("AuditService").Start(ctx, "CategoryStats")
	defer span.End()

	usage, err := s.repo.CategoryUsage(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to compute category usage", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to compute category usage: %w", err)
	}
	return &types.CategoryUsageResponse{Categories: usage, Total: len(usage)}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
