package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"catalogdash/internal/catalog"
	"catalogdash/internal/charts"
	"catalogdash/internal/config"
	"catalogdash/internal/exporter"
	"catalogdash/internal/infrastructure"
	"catalogdash/internal/summary"
	api "catalogdash/pkg/contracts/api/v1"
	"catalogdash/pkg/contracts/events"
)

// EventBroadcaster pushes dataset and chart events to connected dashboards.
type EventBroadcaster interface {
	BroadcastEvent(ctx context.Context, msgType events.MessageType, data any)
}

// LoadResult is everything the dashboard shows right after an upload.
type LoadResult struct {
	Dataset    api.DatasetInfo       `json:"dataset"`
	Preview    summary.PreviewTable  `json:"preview"`
	Shape      summary.TableShape    `json:"shape"`
	Statistics []summary.ColumnStats `json:"statistics"`
	Charts     []api.ChartOption     `json:"charts"`
}

// SummaryResult is the shape and describe block of a dataset.
type SummaryResult struct {
	Shape      summary.TableShape    `json:"shape"`
	Statistics []summary.ColumnStats `json:"statistics"`
}

// ChartExport is a chart rendered as a CSV download.
type ChartExport struct {
	Filename string
	Data     []byte
}

type dataset struct {
	info  api.DatasetInfo
	table *catalog.Table
}

// DatasetService keeps uploaded tables in memory and answers preview,
// summary and chart requests against them.
type DatasetService struct {
	mu       sync.RWMutex
	datasets map[string]*dataset
	order    []string // oldest first

	cfg      config.DatasetsConfig
	exporter *exporter.ChartExporter
	events   EventBroadcaster
	metrics  *infrastructure.CatalogMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// NewDatasetService creates a dataset service. broadcaster, metrics and tracer
// may be nil.
func NewDatasetService(
	cfg config.DatasetsConfig,
	broadcaster EventBroadcaster,
	metrics *infrastructure.CatalogMetrics,
	tracer trace.Tracer,
	logger *slog.Logger,
) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.InstrumentationName)
	}
	logger = logger.With(slog.String("component", "dataset_service"))

	logger.Info("DatasetService initialized",
		slog.Int("max_datasets", cfg.MaxDatasets),
		slog.Int("preview_rows", cfg.PreviewRows))

	return &DatasetService{
		datasets: make(map[string]*dataset),
		cfg:      cfg,
		exporter: exporter.NewChartExporter(logger),
		events:   broadcaster,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
		now:      time.Now,
	}
}

// Load reads an upload, normalizes it and stores the resulting table.
// An upload that is not a table fails with catalog.ErrUnreadableFile and
// leaves the store untouched.
func (s *DatasetService) Load(ctx context.Context, name string, r io.Reader) (*LoadResult, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load", trace.WithAttributes(
		attribute.String("dataset.name", name),
	))
	defer span.End()

	start := s.now()
	raw, err := catalog.ReadRaw(ctx, name, r)
	if err != nil {
		reason := "unreadable"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			reason = "canceled"
		}
		s.metrics.RecordDatasetFailure(ctx, reason)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		s.logger.WarnContext(ctx, "Dataset rejected",
			slog.String("name", name),
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		return nil, err
	}

	table := catalog.Normalize(raw)
	d := &dataset{
		info: api.DatasetInfo{
			ID:       uuid.New().String(),
			Name:     name,
			Rows:     table.Len(),
			Columns:  table.Columns(),
			LoadedAt: s.now().UTC(),
		},
		table: table,
	}

	evicted := s.store(d)

	span.SetAttributes(
		attribute.String("dataset.id", d.info.ID),
		attribute.Int("dataset.rows", table.Len()),
		attribute.Int("dataset.columns", len(d.info.Columns)),
	)
	s.metrics.RecordDatasetLoaded(ctx, table.Len())
	s.metrics.RecordDatasetsRemoved(ctx, len(evicted), "evicted")

	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("dataset_id", d.info.ID),
		slog.String("name", name),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(d.info.Columns)),
		slog.Int("evicted", len(evicted)),
		slog.Duration("duration", s.now().Sub(start)))

	for _, id := range evicted {
		s.publish(ctx, events.MessageTypeDatasetDeleted, events.DatasetDeletedEvent{DatasetID: id, Evicted: true})
	}
	s.publish(ctx, events.MessageTypeDatasetLoaded, events.DatasetLoadedEvent{Dataset: d.info})

	return &LoadResult{
		Dataset:    d.info,
		Preview:    summary.Preview(table, s.cfg.PreviewRows),
		Shape:      summary.Shape(table),
		Statistics: summary.Describe(table),
		Charts:     ChartOptions(),
	}, nil
}

// store adds d and returns the IDs evicted to stay within MaxDatasets.
func (s *DatasetService) store(d *dataset) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets[d.info.ID] = d
	s.order = append(s.order, d.info.ID)

	var evicted []string
	for s.cfg.MaxDatasets > 0 && len(s.order) > s.cfg.MaxDatasets {
		id := s.order[0]
		s.order = s.order[1:]
		delete(s.datasets, id)
		evicted = append(evicted, id)
	}
	return evicted
}

func (s *DatasetService) lookup(id string) (*dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return d, nil
}

// List returns every stored dataset, oldest first.
func (s *DatasetService) List(ctx context.Context) []api.DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.DatasetInfo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.datasets[id].info)
	}
	return out
}

// Count returns the number of stored datasets.
func (s *DatasetService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get returns the dataset's description.
func (s *DatasetService) Get(ctx context.Context, id string) (api.DatasetInfo, error) {
	d, err := s.lookup(id)
	if err != nil {
		return api.DatasetInfo{}, err
	}
	return d.info, nil
}

// Delete discards a dataset.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.datasets[id]
	if ok {
		delete(s.datasets, id)
		s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}

	s.metrics.RecordDatasetsRemoved(ctx, 1, "deleted")
	s.logger.InfoContext(ctx, "Dataset deleted", slog.String("dataset_id", id))
	s.publish(ctx, events.MessageTypeDatasetDeleted, events.DatasetDeletedEvent{DatasetID: id})
	return nil
}

// Preview returns the first rows of a dataset. rows is clamped to the
// configured maximum; zero or less means the default.
func (s *DatasetService) Preview(ctx context.Context, id string, rows int) (summary.PreviewTable, error) {
	d, err := s.lookup(id)
	if err != nil {
		return summary.PreviewTable{}, err
	}
	if rows <= 0 {
		rows = s.cfg.PreviewRows
	}
	if s.cfg.MaxPreviewRows > 0 {
		rows = min(rows, s.cfg.MaxPreviewRows)
	}
	return summary.Preview(d.table, rows), nil
}

// Summary returns the shape and describe statistics of a dataset.
func (s *DatasetService) Summary(ctx context.Context, id string) (*SummaryResult, error) {
	d, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{
		Shape:      summary.Shape(d.table),
		Statistics: summary.Describe(d.table),
	}, nil
}

// Chart computes one chart for a dataset. Unknown keys fail with
// charts.ErrUnknownKind; a table lacking a needed column fails with
// catalog.ErrMissingColumn.
func (s *DatasetService) Chart(ctx context.Context, id, key string) (*charts.Chart, error) {
	kind, err := charts.ParseKind(key)
	if err != nil {
		return nil, err
	}
	d, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "chart.compute", trace.WithAttributes(
		attribute.String("dataset.id", id),
		attribute.String("chart.kind", kind.String()),
	))
	defer span.End()

	start := s.now()
	chart, err := charts.Compute(d.table, kind)
	elapsed := s.now().Sub(start)

	if err != nil {
		var missing *catalog.MissingColumnError
		if errors.As(err, &missing) {
			s.metrics.RecordMissingColumn(ctx, kind.String(), missing.Column)
		}
		s.metrics.RecordChart(ctx, kind.String(), elapsed, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "chart failed")
		s.logger.WarnContext(ctx, "Chart failed",
			slog.String("dataset_id", id),
			slog.String("chart", kind.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.RecordChart(ctx, kind.String(), elapsed, "ok")
	s.logger.DebugContext(ctx, "Chart computed",
		slog.String("dataset_id", id),
		slog.String("chart", kind.String()),
		slog.Duration("duration", elapsed))

	s.publish(ctx, events.MessageTypeChartGenerated, events.ChartGeneratedEvent{
		DatasetID: id,
		Kind:      kind.String(),
		Title:     chart.Title,
		Total:     chart.Total(),
	})
	return chart, nil
}

// ExportChart computes a chart and renders its data as CSV.
func (s *DatasetService) ExportChart(ctx context.Context, id, key string, bom bool) (*ChartExport, error) {
	chart, err := s.Chart(ctx, id, key)
	if err != nil {
		return nil, err
	}
	d, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, chart, exporter.ChartOptions{BOM: bom}); err != nil {
		return nil, err
	}
	return &ChartExport{
		Filename: exporter.Filename(d.info.Name, chart.Kind),
		Data:     buf.Bytes(),
	}, nil
}

// ChartOptions lists the chart dropdown in menu order.
func ChartOptions() []api.ChartOption {
	kinds := charts.Kinds()
	out := make([]api.ChartOption, len(kinds))
	for i, k := range kinds {
		out[i] = api.ChartOption{Key: k.String(), Title: k.Title()}
	}
	return out
}

func (s *DatasetService) publish(ctx context.Context, t events.MessageType, data any) {
	if s.events == nil {
		return
	}
	s.events.BroadcastEvent(ctx, t, data)
}
