package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-routes/config"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/audit"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/catalog"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/llm"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

// Stage names a pipeline state. A failure is reported with the stage that could not be reached.
type Stage string

const (
	StageCategoriesPrompted Stage = "categories_prompted"
	StageCategoriesParsed   Stage = "categories_parsed"
	StagePlacesLoaded       Stage = "places_loaded"
	StageRoutePrompted      Stage = "route_prompted"
	StageRouteExtracted     Stage = "route_extracted"
	StageRouteReconciled    Stage = "route_reconciled"
	StageRouteGeocoded      Stage = "route_geocoded"
	StageRouteAssembled     Stage = "route_assembled"
	StageLogged             Stage = "logged"
	StageDone               Stage = "done"
)

const (
	StrategyLLM     = "llm"
	StrategyNearest = "nearest"
)

// ErrInternal wraps unexpected panics recovered inside the pipeline.
var ErrInternal = errors.New("internal error")

// StageError is the terminal Failed(stage, cause) state of a pipeline run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("route generation failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ClientInfo is the caller metadata stored with the audit record.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// PlaceAugmenter fills in missing coordinates. It fails only when ctx is done.
type PlaceAugmenter interface {
	Augment(ctx context.Context, places []types.CandidatePlace) ([]types.CandidatePlace, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GenerateRoute(ctx context.Context, req types.UserInterestRequest, client ClientInfo) (*types.RouteResponse, error)
}

type ServiceImpl struct {
	catalog      catalog.Service
	completer    llm.Completer
	augmenter    PlaceAugmenter
	auditor      audit.Service
	assembler    *Assembler
	fallback     *NearestPlacesStrategy
	domainFilter []string
	metrics      *metrics.AppMetrics
	logger       *slog.Logger
}

func NewServiceImpl(
	catalogService catalog.Service,
	completer llm.Completer,
	augmenter PlaceAugmenter,
	auditor audit.Service,
	routeCfg config.RouteConfig,
	domainFilter []string,
	m *metrics.AppMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	s := &ServiceImpl{
		catalog:      catalogService,
		completer:    completer,
		augmenter:    augmenter,
		auditor:      auditor,
		assembler:    NewAssembler(routeCfg),
		domainFilter: domainFilter,
		metrics:      m,
		logger:       logger,
	}
	if routeCfg.FallbackEnabled {
		s.fallback = &NearestPlacesStrategy{
			RadiusKm:            routeCfg.FallbackRadiusKm,
			MaxPlaces:           routeCfg.FallbackMaxPlaces,
			DefaultVisitMinutes: routeCfg.DefaultVisitMinutes,
		}
	}
	return s
}

// pipelineRun collects what a single request produced, for the response and the audit row.
type pipelineRun struct {
	stage         Stage
	selectedIDs   []int
	filteredCount int
	categories    []types.Category
	categoriesRaw string
	routeRaw      string
	result        *types.RouteResult
	strategy      string
}

// GenerateRoute runs the pipeline for one request. An audit row is written for every
// outcome, even when ctx has been cancelled.
func (s *ServiceImpl) GenerateRoute(ctx context.Context, req types.UserInterestRequest, client ClientInfo) (*types.RouteResponse, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "GenerateRoute", trace.WithAttributes(
		attribute.Int("available_time_hours", req.AvailableTimeHours),
		attribute.Float64("user.latitude", req.UserLocation.Latitude),
		attribute.Float64("user.longitude", req.UserLocation.Longitude),
	))
	defer span.End()

	start := time.Now()
	requestID := uuid.New()
	run := &pipelineRun{strategy: StrategyLLM}

	err := s.runPipeline(ctx, req, run)
	if err != nil && s.fallback != nil && !errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "LLM route pipeline failed, using nearest places",
			slog.String("request_id", requestID.String()),
			slog.Any("error", err))
		if fbErr := s.runFallback(ctx, req, run); fbErr == nil {
			err = nil
		} else {
			s.logger.ErrorContext(ctx, "Nearest places fallback failed", slog.Any("error", fbErr))
		}
	}
	elapsed := time.Since(start)

	s.record(ctx, requestID, req, client, run, err, elapsed)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.metrics.RouteRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("strategy", run.strategy),
	))
	s.metrics.RouteDurationSeconds.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "route generation failed")
		s.logger.ErrorContext(ctx, "Route generation failed",
			slog.String("request_id", requestID.String()),
			slog.String("stage", string(run.stage)),
			slog.Any("error", err))
		return nil, err
	}

	run.stage = StageDone
	span.SetAttributes(
		attribute.String("request_id", requestID.String()),
		attribute.Int("route.places", run.result.TotalPlaces),
		attribute.String("route.strategy", run.strategy),
	)
	span.SetStatus(codes.Ok, "route generated")
	s.logger.InfoContext(ctx, "Route generated",
		slog.String("request_id", requestID.String()),
		slog.Int("places", run.result.TotalPlaces),
		slog.String("strategy", run.strategy),
		slog.Duration("duration", elapsed))

	return &types.RouteResponse{
		Route: *run.result,
		Metadata: types.RouteMetadata{
			SelectedCategories:  run.selectedIDs,
			FilteredPlacesCount: run.filteredCount,
			RequestID:           requestID.String(),
			ExecutionTimeMs:     elapsed.Milliseconds(),
			Strategy:            run.strategy,
		},
	}, nil
}

func (s *ServiceImpl) runPipeline(ctx context.Context, req types.UserInterestRequest, run *pipelineRun) (err error) {
	s.advance(ctx, run, StageCategoriesPrompted)
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Panic in route pipeline",
				slog.String("stage", string(run.stage)),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = &StageError{Stage: run.stage, Err: fmt.Errorf("%w: %v", ErrInternal, r)}
		}
	}()

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return &StageError{Stage: run.stage, Err: err}
	}
	run.categories = categories

	run.categoriesRaw, err = s.complete(ctx, "categories", BuildCategoriesPrompt(req.UserInterests, categories))
	if err != nil {
		return &StageError{Stage: run.stage, Err: err}
	}

	s.advance(ctx, run, StageCategoriesParsed)
	var selected []int
	if value, extractErr := ExtractJSON(run.categoriesRaw); extractErr != nil {
		s.logger.WarnContext(ctx, "Category selection had no JSON, using all categories", slog.Any("error", extractErr))
	} else {
		selected = ParseCategoryIDs(value)
	}
	if len(selected) == 0 {
		selected = make([]int, 0, len(categories))
		for _, c := range categories {
			selected = append(selected, c.ID)
		}
	}
	run.selectedIDs = distinctSorted(selected)

	s.advance(ctx, run, StagePlacesLoaded)
	places, err := s.catalog.ActivePlaces(ctx, run.selectedIDs)
	if err != nil {
		return &StageError{Stage: run.stage, Err: err}
	}
	if len(places) == 0 {
		s.logger.InfoContext(ctx, "No places in selected categories, using the whole catalog",
			slog.Any("category_ids", run.selectedIDs))
		if places, err = s.catalog.ActivePlaces(ctx, nil); err != nil {
			return &StageError{Stage: run.stage, Err: err}
		}
	}
	run.filteredCount = len(places)

	s.advance(ctx, run, StageRoutePrompted)
	run.routeRaw, err = s.complete(ctx, "route", BuildRoutePrompt(places, req.AvailableTimeHours, req.UserLocation))
	if err != nil {
		return &StageError{Stage: run.stage, Err: err}
	}

	s.advance(ctx, run, StageRouteExtracted)
	value, err := ExtractJSON(run.routeRaw)
	if err != nil {
		return &StageError{Stage: run.stage, Err: err}
	}
	proposed, err := ParseRoutePlaces(value)
	if err != nil {
		return &StageError{Stage: run.stage, Err: err}
	}

	s.advance(ctx, run, StageRouteReconciled)
	reconciled := NewReconciler(BuildCategoryIndex(categories), NewExactTitleResolver(places)).Reconcile(proposed)

	s.advance(ctx, run, StageRouteGeocoded)
	located, err := s.augmenter.Augment(ctx, reconciled)
	if err != nil {
		return &StageError{Stage: run.stage, Err: err}
	}

	s.advance(ctx, run, StageRouteAssembled)
	result := s.assembler.Assemble(located, req.UserLocation)
	run.result = &result
	s.advance(ctx, run, StageLogged)
	return nil
}

// runFallback replaces a failed LLM run with the nearest active places.
func (s *ServiceImpl) runFallback(ctx context.Context, req types.UserInterestRequest, run *pipelineRun) error {
	categories := run.categories
	if categories == nil {
		var err error
		if categories, err = s.catalog.ListCategories(ctx); err != nil {
			return err
		}
	}
	places, err := s.catalog.ActivePlaces(ctx, nil)
	if err != nil {
		return err
	}
	picked := s.fallback.Select(places, categories, req.UserLocation, req.AvailableTimeHours)
	if len(picked) == 0 {
		return fmt.Errorf("no active places within %.1f km", s.fallback.RadiusKm)
	}

	result := s.assembler.Assemble(picked, req.UserLocation)
	run.result = &result
	run.strategy = StrategyNearest
	run.selectedIDs = result.SelectedCategories
	run.filteredCount = len(places)
	run.stage = StageLogged
	return nil
}

func (s *ServiceImpl) advance(ctx context.Context, run *pipelineRun, stage Stage) {
	run.stage = stage
	s.logger.DebugContext(ctx, "Route pipeline stage", slog.String("stage", string(stage)))
}

func (s *ServiceImpl) complete(ctx context.Context, prompt, text string) (string, error) {
	start := time.Now()
	raw, err := s.completer.Complete(ctx, text, s.domainFilter)
	s.metrics.LLMCompletionSeconds.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("prompt", prompt),
		attribute.String("provider", s.completer.Name()),
	))
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", prompt, err)
	}
	s.logger.DebugContext(ctx, "LLM completion received",
		slog.String("prompt", prompt),
		slog.Int("length", len(raw)))
	return raw, nil
}

// record writes the audit row. Storage errors are logged and never change the response.
func (s *ServiceImpl) record(ctx context.Context, requestID uuid.UUID, req types.UserInterestRequest,
	client ClientInfo, run *pipelineRun, runErr error, elapsed time.Duration) {
	rec := types.AuditRecord{
		RequestID:           requestID,
		UserInterests:       req.UserInterests,
		AvailableHours:      req.AvailableTimeHours,
		UserAddress:         req.UserLocation.Address,
		UserLatitude:        req.UserLocation.Latitude,
		UserLongitude:       req.UserLocation.Longitude,
		SelectedCategoryIDs: run.selectedIDs,
		CategoriesResponse:  run.categoriesRaw,
		RouteResponse:       run.routeRaw,
		Success:             runErr == nil,
		ExecutionTimeMs:     elapsed.Milliseconds(),
		IPAddress:           client.IP,
		UserAgent:           client.UserAgent,
	}
	if runErr != nil {
		rec.FailedStage = string(run.stage)
		rec.ErrorMessage = runErr.Error()
	} else if run.result != nil {
		rec.RouteOrder = run.result.RouteOrder
		rec.TotalPlaces = run.result.TotalPlaces
		rec.TotalDistanceKm = run.result.TotalDistanceKm
		rec.TotalTimeMinutes = run.result.TotalTimeMinutes
		for _, id := range run.result.RouteOrder {
			if id != 0 {
				rec.SelectedPlaceIDs = append(rec.SelectedPlaceIDs, id)
			}
		}
		if run.strategy == StrategyNearest {
			if body, err := json.Marshal(run.result.Places); err == nil {
				rec.RouteResponse = string(body)
			}
		}
	}

	if err := s.auditor.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.ErrorContext(ctx, "Failed to store route request audit record",
			slog.String("request_id", requestID.String()),
			slog.Any("error", err))
	}
}

func distinctSorted(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
