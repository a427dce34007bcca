package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogdash/internal/charts"
)

func quietExporter() *ChartExporter {
	return NewChartExporter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportSeries(t *testing.T) {
	c := &charts.Chart{
		Kind: charts.KindTrend,
		Mark: charts.MarkLine,
		Series: []charts.Series{
			{Name: "Movie", Points: []charts.Point{{Label: "1999", Value: 2}, {Label: "2000", Value: 3}}},
			{Name: "TV Show", Points: []charts.Point{{Label: "2000", Value: 1}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, quietExporter().Export(&buf, c, ChartOptions{}))

	assert.Equal(t, [][]string{
		{"series", "label", "value"},
		{"Movie", "1999", "2"},
		{"Movie", "2000", "3"},
		{"TV Show", "2000", "1"},
	}, readCSV(t, buf.Bytes()))
}

func TestExportHistogram(t *testing.T) {
	c := &charts.Chart{
		Kind:   charts.KindDuration90s,
		Mark:   charts.MarkHistogram,
		Series: []charts.Series{},
		Histogram: &charts.Histogram{
			Bins: []charts.Bin{
				{Lower: 90, Upper: 92.5, Count: 3},
				{Lower: 92.5, Upper: 95, Count: 0},
			},
			Density: []charts.Sample{{X: 90, Y: 1}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, quietExporter().Export(&buf, c, ChartOptions{}))

	assert.Equal(t, [][]string{
		{"lower", "upper", "count"},
		{"90", "92.5", "3"},
		{"92.5", "95", "0"},
	}, readCSV(t, buf.Bytes()))
}

func TestExportBOM(t *testing.T) {
	c := &charts.Chart{Kind: charts.KindGenres, Series: []charts.Series{{Name: "genre"}}}

	var buf bytes.Buffer
	require.NoError(t, quietExporter().Export(&buf, c, ChartOptions{BOM: true}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	assert.Equal(t, "series,label,value\n", string(buf.Bytes()[len(utf8BOM):]))
}

func TestExportQuotesLabels(t *testing.T) {
	c := &charts.Chart{
		Kind:   charts.KindCountries,
		Series: []charts.Series{{Name: "country", Points: []charts.Point{{Label: "Korea, South", Value: 4}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, quietExporter().Export(&buf, c, ChartOptions{}))
	assert.Contains(t, buf.String(), `country,"Korea, South",4`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportWriteFailure(t *testing.T) {
	c := &charts.Chart{Kind: charts.KindGenres, Series: []charts.Series{{Name: "genre", Points: []charts.Point{{Label: "Drama", Value: 1}}}}}

	err := quietExporter().Export(failingWriter{}, c, ChartOptions{BOM: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFilename(t *testing.T) {
	tests := []struct {
		dataset string
		kind    charts.Kind
		want    string
	}{
		{"netflix_titles.csv", charts.KindGenres, "netflix_titles_genres.csv"},
		{"My Catalog (2021).xlsx", charts.KindDuration90s, "My_Catalog_2021_duration_90s.csv"},
		{"", charts.KindYearly, "dataset_yearly.csv"},
		{"../../etc/passwd", charts.KindTrend, "passwd_trend.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.dataset, tt.kind))
		})
	}
}
