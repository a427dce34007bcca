// Package exporter writes chart data as CSV.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM for Excel.
// ChartExporter flattens a chart into rows: series,label,value for bar and
// line charts and lower,upper,count for histograms. Only data is
// exported, never rendered images.
//
// Example usage:
//
//	exp := exporter.NewChartExporter(logger)
//	err := exp.Export(w, chart, exporter.ChartOptions{BOM: true})
package exporter
