package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-tourist-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-routes/config"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/audit"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/catalog"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/geocoder"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/health"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/llm"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/maps"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/route"
	"github.com/FACorreiaa/go-tourist-routes/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	RouteHandler   *route.HandlerImpl
	CatalogHandler *catalog.HandlerImpl
	StatsHandler   *audit.HandlerImpl
	MapsHandler    *maps.HandlerImpl
	HealthHandler  *health.HandlerImpl
}

// NewContainer wires repositories, services and handlers around an open pool.
// metrics.InitAppMetrics must have been called.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	appMetrics := metrics.Get()

	catalogRepo := catalog.NewPostgresCatalogRepo(pool, appMetrics, logger)
	catalogService := catalog.NewServiceImpl(catalogRepo, cfg.Catalog.CacheTTL, logger)

	auditRepo := audit.NewPostgresAuditRepo(pool, appMetrics, logger)
	auditService := audit.NewServiceImpl(auditRepo, logger)

	completer, err := llm.NewCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error("Failed to initialize LLM client", slog.Any("error", err))
		return nil, err
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM API key is empty; route generation will fail upstream",
			slog.String("provider", completer.Name()))
	}

	geocoderClient := geocoder.NewClient(cfg.Geocoder, logger)
	cachedGeocoder, err := geocoder.NewCachingGeocoder(geocoderClient, cfg.Geocoder.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	augmenter := geocoder.NewAugmenter(cachedGeocoder, appMetrics, logger)

	routeService := route.NewServiceImpl(catalogService, completer, augmenter, auditService,
		cfg.Route, cfg.LLM.DomainFilter, appMetrics, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Pool:           pool,
		RouteHandler:   route.NewHandlerImpl(routeService, logger),
		CatalogHandler: catalog.NewHandlerImpl(catalogService, logger),
		StatsHandler:   audit.NewHandlerImpl(auditService, logger),
		MapsHandler:    maps.NewHandlerImpl(geocoderClient, cfg.Geocoder.MapsAPIKey, logger),
		HealthHandler:  health.NewHandlerImpl(cfg.Version, cfg.Mode),
	}, nil
}

// RouterConfig exposes the handlers in the shape SetupRouter expects.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		CorsOrigins:    c.Config.Server.CorsOrigins,
		RouteHandler:   c.RouteHandler,
		CatalogHandler: c.CatalogHandler,
		StatsHandler:   c.StatsHandler,
		MapsHandler:    c.MapsHandler,
		HealthHandler:  c.HealthHandler,
	}
}
