package route

import (
	"log/slog"
	"net"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-routes/internal/api"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// GenerateRoute godoc
// @Summary      Generate a walking route
// @Description  Selects categories and an ordered itinerary for the user's interests, time budget and location.
// @Tags         route
// @Accept       json
// @Produce      json
// @Param        request body types.UserInterestRequest true "Route request"
// @Success      200 {object} types.RouteResponse
// @Failure      400 {object} map[string]string
// @Failure      422 {object} map[string]interface{}
// @Failure      500 {object} map[string]string
// @Router       /route/generate [post]
func (h *HandlerImpl) GenerateRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "GenerateRoute", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/route/generate"),
	))
	defer span.End()

	var req types.UserInterestRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "Invalid route request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		api.ValidationErrorResponse(w, r, fieldErrors)
		return
	}

	resp, err := h.service.GenerateRoute(ctx, req, ClientInfo{
		IP:        clientIP(r.RemoteAddr),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// clientIP returns the host part of addr when it is a valid IP, otherwise "".
func clientIP(addr string) string {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return ""
}
