package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

func TestHandlerImpl_Health(t *testing.T) {
	h := NewHandlerImpl("1.0.0", "test")
	h.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body types.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, types.HealthResponse{
		Status:      "ok",
		Version:     "1.0.0",
		Environment: "test",
		Timestamp:   "2025-05-01T12:00:00Z",
	}, body)
}

func TestHandlerImpl_Root(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandlerImpl("1.0.0", "test").Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1.0.0")
}
