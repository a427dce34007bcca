// Command catalogctl loads a catalog file from disk and prints its
// preview, summary statistics and chart data without starting a server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"catalogdash/internal/catalog"
	"catalogdash/internal/charts"
	"catalogdash/internal/config"
	apperrors "catalogdash/internal/errors"
	"catalogdash/internal/infrastructure"
	"catalogdash/internal/services"
	"catalogdash/internal/summary"
	"catalogdash/pkg/contracts"
	api "catalogdash/pkg/contracts/api/v1"
)

const allCharts = "all"

type options struct {
	file    string
	chart   string
	preview int
	summary bool
	format  string
	bom     bool
	verbose bool
}

// report is the JSON document printed by catalogctl
type report struct {
	Dataset     api.DatasetInfo         `json:"dataset"`
	Preview     *summary.PreviewTable   `json:"preview,omitempty"`
	Summary     *services.SummaryResult `json:"summary,omitempty"`
	Charts      []*charts.Chart         `json:"charts,omitempty"`
	ChartErrors []chartError            `json:"chart_errors,omitempty"`
}

type chartError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "catalogctl:", err)
		if apperrors.IsType(err, apperrors.ErrTypeUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "CSV or Excel file to load (required)")
	fs.StringVar(&opts.chart, "chart", "", "chart kind to compute, or \"all\"")
	fs.IntVar(&opts.preview, "preview", api.DefaultPreviewRows, "number of preview rows (0 disables)")
	fs.BoolVar(&opts.summary, "summary", false, "include shape and summary statistics")
	fs.StringVar(&opts.format, "format", "json", "output format: json | csv (csv writes chart data only)")
	fs.BoolVar(&opts.bom, "bom", false, "prefix CSV output with a UTF-8 byte order mark")
	fs.BoolVar(&opts.verbose, "v", false, "log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s\n\nUsage: catalogctl -file <path> [-chart <kind>|all] [-preview n] [-summary] [-format json|csv]\n\nChart kinds:\n", contracts.GetVersionString())
		for _, o := range services.ChartOptions() {
			fmt.Fprintf(fs.Output(), "  %-14s %s\n", o.Key, o.Title)
		}
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, err
		}
		return opts, apperrors.NewAppError(apperrors.ErrTypeUsage, "invalid arguments", err)
	}

	switch {
	case opts.file == "":
		return opts, apperrors.NewUsageError("-file is required")
	case opts.format != "json" && opts.format != "csv":
		return opts, apperrors.NewUsageError("unknown format %q", opts.format)
	case opts.format == "csv" && opts.chart == "":
		return opts, apperrors.NewUsageError("-format csv requires -chart")
	case opts.preview < 0 || opts.preview > api.MaxPreviewRows:
		return opts, apperrors.NewUsageError("-preview must be between 0 and %d", api.MaxPreviewRows)
	}
	if opts.chart != "" && opts.chart != allCharts {
		if _, err := charts.ParseKind(opts.chart); err != nil {
			return opts, apperrors.NewAppError(apperrors.ErrTypeUsage, "invalid -chart", err)
		}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger, err := infrastructure.NewLogger(config.LoggingConfig{Level: level, Output: "console"}, stderr)
	if err != nil {
		return err
	}

	cfg := config.Default().Datasets
	cfg.MaxPreviewRows = api.MaxPreviewRows
	svc := services.NewDatasetService(cfg, nil, nil, nil, logger)

	f, err := os.Open(opts.file)
	if err != nil {
		return apperrors.NewInputError("open dataset", err).WithContext("path", opts.file)
	}
	defer f.Close()

	loaded, err := svc.Load(ctx, filepath.Base(opts.file), f)
	if err != nil {
		return err
	}
	id := loaded.Dataset.ID

	kinds := selectedKinds(opts.chart)

	if opts.format == "csv" {
		return writeCSV(ctx, stdout, svc, id, kinds, opts.bom)
	}

	out := report{Dataset: loaded.Dataset}
	if opts.preview > 0 {
		p, err := svc.Preview(ctx, id, opts.preview)
		if err != nil {
			return err
		}
		out.Preview = &p
	}
	if opts.summary {
		sum, err := svc.Summary(ctx, id)
		if err != nil {
			return err
		}
		out.Summary = sum
	}
	for _, key := range kinds {
		c, err := svc.Chart(ctx, id, key)
		var missing *catalog.MissingColumnError
		switch {
		case errors.As(err, &missing) && opts.chart == allCharts:
			out.ChartErrors = append(out.ChartErrors, chartError{Kind: key, Message: err.Error()})
		case err != nil:
			return err
		default:
			out.Charts = append(out.Charts, c)
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeCSV writes each chart's CSV, separated by a blank line when more
// than one chart is selected.
func writeCSV(ctx context.Context, w io.Writer, svc *services.DatasetService, id string, kinds []string, bom bool) error {
	for i, key := range kinds {
		exp, err := svc.ExportChart(ctx, id, key, bom && i == 0)
		if err != nil {
			return fmt.Errorf("chart %s: %w", key, err)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(exp.Data); err != nil {
			return err
		}
	}
	return nil
}

func selectedKinds(chart string) []string {
	switch chart {
	case "":
		return nil
	case allCharts:
		keys := make([]string, 0, len(charts.Kinds()))
		for _, k := range charts.Kinds() {
			keys = append(keys, k.String())
		}
		return keys
	default:
		return []string{chart}
	}
}
