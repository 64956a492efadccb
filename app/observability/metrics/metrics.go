package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RouteRequestsTotal     metric.Int64Counter
	RouteDurationSeconds   metric.Float64Histogram
	LLMCompletionSeconds   metric.Float64Histogram
	GeocodeFailuresTotal   metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		appMetrics = newAppMetrics(otel.GetMeterProvider().Meter("TouristRoutes"))
		log.Println("Application metrics instruments initialized.")
	})
}

func newAppMetrics(meter metric.Meter) *AppMetrics {
	var err error
	m := &AppMetrics{}

	m.RouteRequestsTotal, err = meter.Int64Counter(
		"route_requests_total",
		metric.WithDescription("Total number of route generation requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create route_requests_total: %v", err)
	}

	m.RouteDurationSeconds, err = meter.Float64Histogram(
		"route_duration_seconds",
		metric.WithDescription("End-to-end duration of the route pipeline in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create route_duration_seconds: %v", err)
	}

	m.LLMCompletionSeconds, err = meter.Float64Histogram(
		"llm_completion_duration_seconds",
		metric.WithDescription("Duration of completion calls to the LLM provider in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create llm_completion_duration_seconds: %v", err)
	}

	m.GeocodeFailuresTotal, err = meter.Int64Counter(
		"geocode_failures_total",
		metric.WithDescription("Places left without coordinates after a geocoder lookup"),
		metric.WithUnit("{place}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create geocode_failures_total: %v", err)
	}

	m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
	}

	m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
	}
	return m
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// Noop returns instruments that record nothing, for tests and tools that skip telemetry setup.
func Noop() *AppMetrics {
	return newAppMetrics(noop.NewMeterProvider().Meter("noop"))
}
