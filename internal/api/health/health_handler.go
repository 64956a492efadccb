package health

import (
	"net/http"
	"time"

	"github.com/FACorreiaa/go-tourist-routes/internal/api"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

type HandlerImpl struct {
	version     string
	environment string
	now         func() time.Time
}

func NewHandlerImpl(version, environment string) *HandlerImpl {
	return &HandlerImpl{version: version, environment: environment, now: time.Now}
}

// Health godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Router       /health [get]
func (h *HandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, types.HealthResponse{
		Status:      "ok",
		Version:     h.version,
		Environment: h.environment,
		Timestamp:   h.now().UTC().Format(time.RFC3339),
	})
}

// Root answers GET / with a short service banner.
func (h *HandlerImpl) Root(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"message": "AI Tourist Assistant API",
		"version": h.version,
		"docs":    "/swagger/index.html",
	})
}
