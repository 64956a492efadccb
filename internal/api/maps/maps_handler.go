// Package maps proxies map configuration, geocoding and address suggestions for the browser client,
// so provider keys other than the public maps key never leave the server.
package maps

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-routes/internal/api"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/geocoder"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/upstream"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

const suggestionsLimit = 5

// CityCenter is the default map view over Nizhny Novgorod.
var CityCenter = [2]float64{56.3287, 44.0020}

const cityZoom = 12

// AddressLookup is the geocoder surface the proxy endpoints use.
type AddressLookup interface {
	GeocodeAddress(ctx context.Context, address string) (*geocoder.Result, error)
	Suggest(ctx context.Context, text string, limit int) ([]types.Suggestion, error)
}

var _ AddressLookup = (*geocoder.Client)(nil)

type HandlerImpl struct {
	lookup     AddressLookup
	mapsAPIKey string
	logger     *slog.Logger
}

func NewHandlerImpl(lookup AddressLookup, mapsAPIKey string, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{lookup: lookup, mapsAPIKey: mapsAPIKey, logger: logger}
}

// Config godoc
// @Summary      Map configuration
// @Description  Public maps key and the initial map view.
// @Tags         maps
// @Produce      json
// @Success      200 {object} types.MapsConfig
// @Failure      500 {object} map[string]string
// @Router       /maps/config [get]
func (h *HandlerImpl) Config(w http.ResponseWriter, r *http.Request) {
	if h.mapsAPIKey == "" {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Yandex Maps API key not configured")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.MapsConfig{
		APIKey: h.mapsAPIKey,
		Center: CityCenter,
		Zoom:   cityZoom,
	})
}

// Geocode godoc
// @Summary      Geocode an address
// @Tags         maps
// @Accept       json
// @Produce      json
// @Param        request body types.GeocodeRequest true "Address"
// @Success      200 {object} types.GeocodeResponse
// @Failure      404 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /maps/geocode [post]
func (h *HandlerImpl) Geocode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MapsHandler").Start(r.Context(), "Geocode", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/maps/geocode"),
	))
	defer span.End()

	var req types.GeocodeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	if req.Address == "" {
		api.ValidationErrorResponse(w, r, []types.FieldError{{Loc: []string{"body", "address"}, Msg: "must not be empty"}})
		return
	}
	span.SetAttributes(attribute.String("geocode.address", req.Address))

	result, err := h.lookup.GeocodeAddress(ctx, req.Address)
	if err != nil {
		status, msg := upstreamStatus(err)
		h.logger.WarnContext(ctx, "Geocoding request failed", slog.String("address", req.Address), slog.Any("error", err))
		api.ErrorResponse(w, r, status, msg)
		return
	}
	if result == nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Address not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.GeocodeResponse{
		Address:          req.Address,
		Latitude:         result.Latitude,
		Longitude:        result.Longitude,
		FormattedAddress: result.FormattedAddress,
	})
}

// Suggestions godoc
// @Summary      Address suggestions
// @Tags         maps
// @Accept       json
// @Produce      json
// @Param        request body types.SuggestionsRequest true "Partial address"
// @Success      200 {object} types.SuggestionsResponse
// @Failure      400 {object} map[string]string
// @Router       /maps/suggestions [post]
func (h *HandlerImpl) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MapsHandler").Start(r.Context(), "Suggestions", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/maps/suggestions"),
	))
	defer span.End()

	var req types.SuggestionsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query is required")
		return
	}

	suggestions, err := h.lookup.Suggest(ctx, strings.TrimSpace(req.Query), suggestionsLimit)
	if err != nil {
		status, msg := upstreamStatus(err)
		h.logger.WarnContext(ctx, "Suggest request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, status, msg)
		return
	}
	if suggestions == nil {
		suggestions = []types.Suggestion{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.SuggestionsResponse{Suggestions: suggestions})
}

// upstreamStatus maps a geocoder error onto the status returned to the browser.
func upstreamStatus(err error) (int, string) {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, geocoder.ErrNotConfigured):
		return http.StatusInternalServerError, "Geocoder API key not configured"
	case errors.As(err, &statusErr):
		return statusErr.StatusCode, "Geocoding API error: " + statusErr.Error()
	case errors.Is(err, upstream.ErrUnavailable), errors.Is(err, upstream.ErrTimeout):
		return http.StatusServiceUnavailable, "Connection error: " + err.Error()
	default:
		return http.StatusInternalServerError, "Geocoding error: " + err.Error()
	}
}
