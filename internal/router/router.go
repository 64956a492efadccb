package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appMiddleware "github.com/FACorreiaa/go-tourist-routes/app/middleware"
	_ "github.com/FACorreiaa/go-tourist-routes/docs"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/audit"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/catalog"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/health"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/maps"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/route"
)

// Config contains the handlers mounted by SetupRouter.
type Config struct {
	CorsOrigins    []string
	RouteHandler   *route.HandlerImpl
	CatalogHandler *catalog.HandlerImpl
	StatsHandler   *audit.HandlerImpl
	MapsHandler    *maps.HandlerImpl
	HealthHandler  *health.HandlerImpl
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, request ID, recoverer) is applied in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", cfg.HealthHandler.Root)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Use(appMiddleware.RequireJSON)

		r.Post("/route/generate", cfg.RouteHandler.GenerateRoute)

		r.Get("/categories", cfg.CatalogHandler.ListCategories)
		r.Get("/categories/{id}", cfg.CatalogHandler.GetCategory)

		r.Get("/stats", cfg.StatsHandler.Stats)
		r.Get("/stats/categories", cfg.StatsHandler.CategoryStats)

		r.Get("/maps/config", cfg.MapsHandler.Config)
		r.Post("/maps/geocode", cfg.MapsHandler.Geocode)
		r.Post("/maps/suggestions", cfg.MapsHandler.Suggestions)

		r.Get("/health", cfg.HealthHandler.Health)
	})

	return r
}
