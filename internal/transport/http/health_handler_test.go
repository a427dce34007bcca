package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "catalogdash/internal/errors"
	"catalogdash/internal/services"
	"catalogdash/pkg/contracts"
)

type staticCounter int

func (c staticCounter) Count() int       { return int(c) }
func (c staticCounter) ClientCount() int { return int(c) }

func TestHealthHandler(t *testing.T) {
	logger := testLogger()
	healthService := services.NewHealthService(staticCounter(2), staticCounter(1), logger)
	handler := NewHealthHandler(healthService, logger)

	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())
	r.Get("/api/version", handler.Version)

	tests := []struct {
		name           string
		endpoint       string
		expectedStatus int
		checkResponse  func(t *testing.T, body map[string]any)
	}{
		{
			name:           "health check endpoint",
			endpoint:       "/api/health",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "ok", body["status"])
				assert.Equal(t, contracts.Version, body["version"])
			},
		},
		{
			name:           "liveness endpoint",
			endpoint:       "/api/health/live",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "alive", body["status"])
				assert.Contains(t, body, "runtime")
			},
		},
		{
			name:           "readiness endpoint",
			endpoint:       "/api/health/ready",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "ready", body["status"])
				services, ok := body["services"].(map[string]any)
				require.True(t, ok)
				assert.Contains(t, services, "datasets")
				assert.Contains(t, services, "websocket")
			},
		},
		{
			name:           "version endpoint",
			endpoint:       "/api/version",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, contracts.Version, body["version"])
				assert.Equal(t, contracts.APIVersion, body["api_version"])
				assert.Contains(t, body, "uptime_seconds")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.endpoint, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.checkResponse(t, body)
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	logger := testLogger()
	handler := NewHealthHandler(services.NewHealthService(nil, nil, logger), logger)

	rec := httptest.NewRecorder()
	handler.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_ready"`)
}

func TestChartsHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Mount("/api/charts", NewChartsHandler(services.ChartOptions).Routes())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/charts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Charts []struct {
			Key   string `json:"key"`
			Title string `json:"title"`
		} `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Charts, 9)
	assert.Equal(t, "genres", body.Charts[0].Key)
	assert.Equal(t, "Top 10 Genres", body.Charts[0].Title)
	assert.Equal(t, "genres_2000", body.Charts[8].Key)
}

func TestMetricsHandler(t *testing.T) {
	errorHandler := apierrors.NewErrorHandler(testLogger(), false)

	t.Run("exporter enabled", func(t *testing.T) {
		exposition := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# HELP up\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exposition, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# HELP up\n", rec.Body.String())
	})

	t.Run("exporter disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), apierrors.CodeUnavailable)
	})
}
