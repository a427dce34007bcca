// Package summary describes a loaded catalog: the first rows, its shape and
// per-column statistics for numeric columns.
package summary

import (
	"math"
	"slices"

	"github.com/go-gota/gota/series"

	"catalogdash/internal/catalog"
)

// PreviewTable is the header and the first rows of a table as display
// strings. Null cells are nil.
type PreviewTable struct {
	Columns []string                     `json:"columns"`
	Rows    [][]catalog.Optional[string] `json:"rows"`
}

// TableShape is the number of rows and columns.
type TableShape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ColumnStats summarises the non-null values of a numeric column.
type ColumnStats struct {
	Column string                    `json:"column"`
	Count  int                       `json:"count"`
	Mean   catalog.Optional[float64] `json:"mean"`
	Std    catalog.Optional[float64] `json:"std"`
	Min    catalog.Optional[float64] `json:"min"`
	P25    catalog.Optional[float64] `json:"p25"`
	P50    catalog.Optional[float64] `json:"p50"`
	P75    catalog.Optional[float64] `json:"p75"`
	Max    catalog.Optional[float64] `json:"max"`
}

// Preview returns at most n leading rows.
func Preview(t *catalog.Table, n int) PreviewTable {
	n = max(0, min(n, t.Len()))
	cols := t.Columns()
	p := PreviewTable{Columns: cols, Rows: make([][]catalog.Optional[string], n)}
	for i := range n {
		row := make([]catalog.Optional[string], len(cols))
		for j, col := range cols {
			row[j] = t.Cell(i, col)
		}
		p.Rows[i] = row
	}
	return p
}

// Shape reports the table dimensions, derived columns included.
func Shape(t *catalog.Table) TableShape {
	return TableShape{Rows: t.Len(), Columns: len(t.Columns())}
}

// Describe computes statistics for every numeric column in column order:
// release_year, year_added and any column whose values all read as numbers.
// date_added is a date column and is never described.
func Describe(t *catalog.Table) []ColumnStats {
	var out []ColumnStats
	for _, col := range t.Columns() {
		values, ok := numericColumn(t, col)
		if !ok {
			continue
		}
		out = append(out, describe(col, values))
	}
	return out
}

func numericColumn(t *catalog.Table, col string) ([]float64, bool) {
	var values []float64
	switch col {
	case catalog.ColDateAdded:
		return nil, false
	case catalog.ColReleaseYear:
		for _, row := range t.Rows() {
			if v, ok := row.ReleaseYear().Get(); ok {
				values = append(values, v)
			}
		}
		return values, true
	case catalog.ColYearAdded:
		for _, row := range t.Rows() {
			if v, ok := row.YearAdded().Get(); ok {
				values = append(values, float64(v))
			}
		}
		return values, true
	}

	for i := range t.Len() {
		s, ok := t.Cell(i, col).Get()
		if !ok {
			continue
		}
		v, ok := catalog.ParseNumber(s)
		if !ok {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func describe(col string, values []float64) ColumnStats {
	st := ColumnStats{Column: col, Count: len(values)}
	if len(values) == 0 {
		return st
	}

	s := series.Floats(values)
	st.Mean = catalog.Some(s.Mean())
	st.Min = catalog.Some(s.Min())
	st.Max = catalog.Some(s.Max())
	if len(values) > 1 {
		st.Std = catalog.Some(s.StdDev())
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	st.P25 = catalog.Some(percentile(sorted, 0.25))
	st.P50 = catalog.Some(percentile(sorted, 0.50))
	st.P75 = catalog.Some(percentile(sorted, 0.75))
	return st
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
