package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogdash/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.TraceExporter = "stdout"

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelDisabled(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "none"

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)

	// No-op instruments still work.
	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()
	metrics, err := CreateCatalogMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordDatasetLoaded(context.Background(), 10)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelUnsupportedExporter(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.MetricExporter = "statsd"

	_, err := InitializeOTel(cfg, quietLogger())
	assert.Error(t, err)
}

func TestTraceCorrelation(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.TraceExporter = "stdout"
	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestCatalogMetricsExposed(t *testing.T) {
	providers, err := InitializeOTel(config.Default().Telemetry, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateCatalogMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordDatasetLoaded(ctx, 120)
	metrics.RecordDatasetFailure(ctx, "unreadable")
	metrics.RecordDatasetsRemoved(ctx, 1, "deleted")
	metrics.RecordChart(ctx, "genres", 3*time.Millisecond, "ok")
	metrics.RecordMissingColumn(ctx, "yearly", "date_added")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "catalog_datasets_loaded_total")
	assert.Contains(t, body, "catalog_dataset_load_failures_total")
	assert.Contains(t, body, "catalog_datasets_removed_total")
	assert.Contains(t, body, `reason="deleted"`)
	assert.Contains(t, body, "catalog_chart_computations_total")
	assert.Contains(t, body, "catalog_missing_column_failures_total")
}

func TestCatalogMetricsNilSafe(t *testing.T) {
	var metrics *CatalogMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		metrics.RecordDatasetLoaded(ctx, 1)
		metrics.RecordDatasetFailure(ctx, "x")
		metrics.RecordDatasetsRemoved(ctx, 1, "evicted")
		metrics.RecordChart(ctx, "genres", time.Second, "ok")
		metrics.RecordMissingColumn(ctx, "genres", "genre")
	})
}
