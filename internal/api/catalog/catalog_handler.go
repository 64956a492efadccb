package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
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

// ListCategories godoc
// @Summary      List categories
// @Description  Returns every category with the number of active places in it.
// @Tags         categories
// @Produce      json
// @Success      200 {object} types.CategoriesResponse
// @Failure      500 {object} map[string]string
// @Router       /categories [get]
func (h *HandlerImpl) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "ListCategories", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/categories"),
	))
	defer span.End()

	categories, err := h.service.ListCategories(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list categories", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	if categories == nil {
		categories = []types.Category{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.CategoriesResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// GetCategory godoc
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category ID"
// @Success      200 {object} types.Category
// @Failure      404 {object} map[string]string
// @Router       /categories/{id} [get]
func (h *HandlerImpl) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "GetCategory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/categories/{id}"),
	))
	defer span.End()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		api.ValidationErrorResponse(w, r, []types.FieldError{{Loc: []string{"path", "id"}, Msg: "must be an integer"}})
		return
	}

	category, err := h.service.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get category", slog.Int("id", id), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load category")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, category)
}
