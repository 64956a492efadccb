package audit

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-tourist-routes/internal/api"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// Stats godoc
// @Summary      Usage statistics
// @Tags         stats
// @Produce      json
// @Success      200 {object} types.UsageStats
// @Router       /stats [get]
func (h *HandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// CategoryStats godoc
// @Summary      Category popularity
// @Tags         stats
// @Produce      json
// @Success      200 {object} types.CategoryUsageResponse
// @Router       /stats/categories [get]
func (h *HandlerImpl) CategoryStats(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.CategoryStats(r.Context())
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute category statistics")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, usage)
}
