package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"catalogdash/internal/charts"
)

var (
	seriesHeaders    = []string{"series", "label", "value"}
	histogramHeaders = []string{"lower", "upper", "count"}

	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// ChartOptions configures a chart export
type ChartOptions struct {
	BOM bool
}

// ChartExporter flattens charts into CSV
type ChartExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewChartExporter creates a chart exporter
func NewChartExporter(logger *slog.Logger) *ChartExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartExporter{
		writer: NewCSVWriter(logger),
		logger: logger,
	}
}

// Export writes c to w
func (e *ChartExporter) Export(w io.Writer, c *charts.Chart, opts ChartOptions) error {
	headers, records := ChartRecords(c)

	e.logger.Debug("Exporting chart",
		slog.String("chart", c.Kind.String()),
		slog.Int("rows", len(records)))

	if err := e.writer.WriteCSV(w, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: opts.BOM,
	}); err != nil {
		return fmt.Errorf("export %s: %w", c.Kind, err)
	}
	return nil
}

// ChartRecords returns the header and rows for c. Histograms export their
// bins; the density curve is a rendering aid and is left out.
func ChartRecords(c *charts.Chart) ([]string, [][]string) {
	if c.Histogram != nil {
		records := make([][]string, 0, len(c.Histogram.Bins))
		for _, b := range c.Histogram.Bins {
			records = append(records, []string{formatFloat(b.Lower), formatFloat(b.Upper), formatInt(b.Count)})
		}
		return histogramHeaders, records
	}

	var records [][]string
	for _, s := range c.Series {
		for _, p := range s.Points {
			records = append(records, []string{s.Name, p.Label, formatFloat(p.Value)})
		}
	}
	return seriesHeaders, records
}

// Filename builds the download name for a chart of the named dataset
func Filename(dataset string, kind charts.Kind) string {
	base := strings.TrimSuffix(filepath.Base(dataset), filepath.Ext(dataset))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "dataset"
	}
	return base + "_" + kind.String() + ".csv"
}
