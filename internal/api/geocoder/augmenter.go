package geocoder

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

// Augmenter fills in coordinates for route places that lack them.
type Augmenter struct {
	geocoder Geocoder
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
}

func NewAugmenter(geocoder Geocoder, m *metrics.AppMetrics, logger *slog.Logger) *Augmenter {
	return &Augmenter{geocoder: geocoder, metrics: m, logger: logger}
}

// Augment returns a copy of places where every place without usable coordinates
// has been geocoded by "title address". A failed lookup leaves that place unchanged.
// Only cancellation of ctx stops the batch early.
func (a *Augmenter) Augment(ctx context.Context, places []types.CandidatePlace) ([]types.CandidatePlace, error) {
	ctx, span := otel.Tracer("GeocodingAugmenter").Start(ctx, "Augment", trace.WithAttributes(
		attribute.Int("places.count", len(places)),
	))
	defer span.End()

	out := make([]types.CandidatePlace, len(places))
	copy(out, places)

	geocoded, failed := 0, 0
	for i := range out {
		if out[i].HasCoordinates() {
			continue
		}
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, err
		}

		query := strings.TrimSpace(out[i].Title + " " + out[i].Address)
		result, err := a.geocoder.Geocode(ctx, query)
		switch {
		case err != nil:
			failed++
			a.logger.WarnContext(ctx, "Geocoding failed for place, keeping original coordinates",
				slog.String("title", out[i].Title),
				slog.Any("error", err))
		case result == nil:
			failed++
			a.logger.DebugContext(ctx, "Geocoder found nothing for place", slog.String("title", out[i].Title))
		default:
			geocoded++
			out[i].Coordinates = &types.Coordinates{Latitude: result.Latitude, Longitude: result.Longitude}
		}
	}

	if failed > 0 {
		a.metrics.GeocodeFailuresTotal.Add(ctx, int64(failed))
	}
	span.SetAttributes(attribute.Int("places.geocoded", geocoded), attribute.Int("places.failed", failed))
	return out, nil
}
