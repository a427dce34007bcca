package charts

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"catalogdash/internal/catalog"
)

const movieType = "Movie"

type computeFunc func(*catalog.Table) (*Chart, error)

var computers = [kindCount]computeFunc{
	KindGenres:      genres,
	KindTrend:       trend,
	KindCountries:   countries,
	KindYearly:      yearly,
	KindDirectors:   directors,
	KindDuration90s: duration90s,
	KindReleaseLine: releaseLine,
	KindCountType:   countType,
	KindGenres2000:  genres2000,
}

// Compute builds the data for one chart. The table is only read. A column
// the chart needs but the table lacks is reported as a
// *catalog.MissingColumnError before anything is computed.
func Compute(t *catalog.Table, kind Kind) (*Chart, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	c, err := computers[kind](t)
	if err != nil {
		return nil, err
	}
	c.Kind = kind
	c.Title = kind.Title()
	return c, nil
}

func ranking(t *catalog.Table, col, xLabel, yLabel string, explode bool) (*Chart, error) {
	if err := t.Require(col); err != nil {
		return nil, err
	}
	values := t.Strings(col)
	tl := newTally()
	if explode {
		tl.addAll(catalog.Explode(values, catalog.ListSeparator))
	} else {
		for v := range values {
			if s, ok := v.Get(); ok {
				tl.add(s)
			}
		}
	}
	return &Chart{
		Mark:   MarkHorizontalBar,
		XLabel: xLabel,
		YLabel: yLabel,
		Series: []Series{{Name: col, Points: top(tl.ranked(), topN)}},
	}, nil
}

func genres(t *catalog.Table) (*Chart, error) {
	return ranking(t, catalog.ColGenre, "Count", catalog.ColGenre, false)
}

func countries(t *catalog.Table) (*Chart, error) {
	return ranking(t, catalog.ColCountry, "Count", catalog.ColCountry, false)
}

func directors(t *catalog.Table) (*Chart, error) {
	return ranking(t, catalog.ColDirector, "Number of Titles", catalog.ColDirector, true)
}

func trend(t *catalog.Table) (*Chart, error) {
	if err := t.Require(catalog.ColReleaseYear, catalog.ColType); err != nil {
		return nil, err
	}

	type key struct {
		year float64
		typ  string
	}
	counts := make(map[key]int)
	for _, row := range t.Rows() {
		year, ok := row.ReleaseYear().Get()
		if !ok {
			continue
		}
		typ, ok := row.Type().Get()
		if !ok {
			continue
		}
		counts[key{year, typ}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if c := cmp.Compare(a.year, b.year); c != 0 {
			return c
		}
		return cmp.Compare(a.typ, b.typ)
	})

	var series []Series
	index := make(map[string]int)
	for _, k := range keys {
		i, ok := index[k.typ]
		if !ok {
			i = len(series)
			index[k.typ] = i
			series = append(series, Series{Name: k.typ})
		}
		series[i].Points = append(series[i].Points, Point{Label: yearLabel(k.year), Value: float64(counts[k])})
	}

	return &Chart{
		Mark:   MarkLine,
		XLabel: "Release Year",
		YLabel: "Number of Releases",
		Series: series,
	}, nil
}

func yearly(t *catalog.Table) (*Chart, error) {
	if err := t.Require(catalog.ColDateAdded); err != nil {
		return nil, err
	}
	years := make(yearTally)
	for _, row := range t.Rows() {
		if y, ok := row.YearAdded().Get(); ok {
			years[float64(y)]++
		}
	}
	return &Chart{
		Mark:   MarkBar,
		XLabel: catalog.ColYearAdded,
		YLabel: "count",
		Series: []Series{{Name: catalog.ColYearAdded, Points: years.points()}},
	}, nil
}

func releaseLine(t *catalog.Table) (*Chart, error) {
	if err := t.Require(catalog.ColReleaseYear); err != nil {
		return nil, err
	}
	years := make(yearTally)
	for _, row := range t.Rows() {
		if y, ok := row.ReleaseYear().Get(); ok {
			years[y]++
		}
	}
	return &Chart{
		Mark:   MarkLine,
		XLabel: "Year",
		YLabel: "Number of Titles",
		Series: []Series{{Name: catalog.ColReleaseYear, Points: years.points()}},
	}, nil
}

func countType(t *catalog.Table) (*Chart, error) {
	if err := t.Require(catalog.ColType); err != nil {
		return nil, err
	}
	tl := newTally()
	for v := range t.Strings(catalog.ColType) {
		if s, ok := v.Get(); ok {
			tl.add(s)
		}
	}
	return &Chart{
		Mark:   MarkBar,
		XLabel: "Type",
		YLabel: "Number of Titles",
		Series: []Series{{Name: catalog.ColType, Points: tl.ranked()}},
	}, nil
}

func genres2000(t *catalog.Table) (*Chart, error) {
	if err := t.Require(catalog.ColType, catalog.ColReleaseYear, catalog.ColGenre); err != nil {
		return nil, err
	}
	var cells []catalog.Optional[string]
	for _, row := range t.Rows() {
		if !isMovie(row) {
			continue
		}
		if y, ok := row.ReleaseYear().Get(); !ok || y != 2000 {
			continue
		}
		cells = append(cells, row.Genre())
	}
	tl := newTally().addAll(catalog.Explode(slices.Values(cells), catalog.ListSeparator))
	return &Chart{
		Mark:   MarkHorizontalBar,
		XLabel: "Number of Movies",
		YLabel: "Genre",
		Series: []Series{{Name: catalog.ColGenre, Points: top(tl.ranked(), topN)}},
	}, nil
}

func duration90s(t *catalog.Table) (*Chart, error) {
	if err := t.Require(catalog.ColType, catalog.ColReleaseYear, catalog.ColDuration); err != nil {
		return nil, err
	}
	var minutes []float64
	for _, row := range t.Rows() {
		if !isMovie(row) {
			continue
		}
		y, ok := row.ReleaseYear().Get()
		if !ok || y < 1990 || y > 1999 {
			continue
		}
		d, ok := row.Duration().Get()
		if !ok {
			continue
		}
		if m, ok := catalog.LeadingNumber(d); ok {
			minutes = append(minutes, m)
		}
	}
	return &Chart{
		Mark:      MarkHistogram,
		XLabel:    "Duration (minutes)",
		YLabel:    "Count",
		Series:    []Series{},
		Histogram: histogram(minutes, histogramBins),
	}, nil
}

func isMovie(row catalog.Row) bool {
	typ, ok := row.Type().Get()
	return ok && typ == movieType
}

// yearLabel renders whole years without a fractional part.
func yearLabel(year float64) string {
	if year == float64(int64(year)) {
		return strconv.FormatInt(int64(year), 10)
	}
	return catalog.FormatNumber(year)
}
