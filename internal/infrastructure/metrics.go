package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CatalogMetrics holds the service's instruments.
type CatalogMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	DatasetsLoaded      metric.Int64Counter
	DatasetLoadFailures metric.Int64Counter
	DatasetRows         metric.Int64Histogram
	DatasetsStored      metric.Int64UpDownCounter
	DatasetsRemoved     metric.Int64Counter

	ChartComputations     metric.Int64Counter
	ChartDuration         metric.Float64Histogram
	MissingColumnFailures metric.Int64Counter
}

// CreateCatalogMetrics registers every instrument on meter.
func CreateCatalogMetrics(meter metric.Meter) (*CatalogMetrics, error) {
	m := &CatalogMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.DatasetsLoaded, err = meter.Int64Counter(
		"catalog_datasets_loaded_total",
		metric.WithDescription("Uploads loaded and normalized"),
	); err != nil {
		return nil, err
	}

	if m.DatasetLoadFailures, err = meter.Int64Counter(
		"catalog_dataset_load_failures_total",
		metric.WithDescription("Uploads rejected as unreadable"),
	); err != nil {
		return nil, err
	}

	if m.DatasetRows, err = meter.Int64Histogram(
		"catalog_dataset_rows",
		metric.WithDescription("Rows per loaded dataset"),
	); err != nil {
		return nil, err
	}

	if m.DatasetsStored, err = meter.Int64UpDownCounter(
		"catalog_datasets_stored",
		metric.WithDescription("Datasets currently held in memory"),
	); err != nil {
		return nil, err
	}

	if m.DatasetsRemoved, err = meter.Int64Counter(
		"catalog_datasets_removed_total",
		metric.WithDescription("Datasets removed from memory by reason"),
	); err != nil {
		return nil, err
	}

	if m.ChartComputations, err = meter.Int64Counter(
		"catalog_chart_computations_total",
		metric.WithDescription("Chart computations by kind and status"),
	); err != nil {
		return nil, err
	}

	if m.ChartDuration, err = meter.Float64Histogram(
		"catalog_chart_duration_seconds",
		metric.WithDescription("Chart computation duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.MissingColumnFailures, err = meter.Int64Counter(
		"catalog_missing_column_failures_total",
		metric.WithDescription("Charts refused because a required column is absent"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDatasetLoaded records a successful upload.
func (m *CatalogMetrics) RecordDatasetLoaded(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.DatasetsLoaded.Add(ctx, 1)
	m.DatasetRows.Record(ctx, int64(rows))
	m.DatasetsStored.Add(ctx, 1)
}

// RecordDatasetFailure records a rejected upload.
func (m *CatalogMetrics) RecordDatasetFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.DatasetLoadFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordDatasetsRemoved records n datasets leaving the store. reason is
// "deleted" or "evicted".
func (m *CatalogMetrics) RecordDatasetsRemoved(ctx context.Context, n int, reason string) {
	if m == nil || n == 0 {
		return
	}
	m.DatasetsStored.Add(ctx, -int64(n))
	m.DatasetsRemoved.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordChart records one chart computation.
func (m *CatalogMetrics) RecordChart(ctx context.Context, kind string, d time.Duration, status string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("chart.kind", kind),
		attribute.String("status", status),
	)
	m.ChartComputations.Add(ctx, 1, attrs)
	m.ChartDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordMissingColumn records a chart refused for lack of a column.
func (m *CatalogMetrics) RecordMissingColumn(ctx context.Context, kind, column string) {
	if m == nil {
		return
	}
	m.MissingColumnFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("chart.kind", kind),
		attribute.String("column", column),
	))
}
