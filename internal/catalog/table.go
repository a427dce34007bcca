package catalog

import (
	"iter"
	"slices"
	"strconv"
	"time"
)

// Well-known column names.
const (
	ColType        = "type"
	ColGenre       = "genre"
	ColCountry     = "country"
	ColDirector    = "director"
	ColDuration    = "duration"
	ColReleaseYear = "release_year"
	ColDateAdded   = "date_added"
	ColYearAdded   = "year_added"
)

// ListSeparator joins the values of genre, country and director.
const ListSeparator = ", "

// DateFormat is used when a coerced date is displayed.
const DateFormat = "2006-01-02"

// Table is a normalized catalog. It is never modified after Normalize
// returns, so it can be shared between goroutines without locking.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	cells   [][]Optional[string]

	dateAdded   []Optional[time.Time]
	releaseYear []Optional[float64]
	yearAdded   []Optional[int]
}

// Normalize coerces date_added and release_year and derives year_added.
// Cells that fail to coerce become null; rows are never dropped.
func Normalize(raw *RawTable) *Table {
	t := &Table{name: raw.Name, index: make(map[string]int)}

	keep := make([]int, 0, len(raw.Header))
	for i, col := range raw.Header {
		if col == ColYearAdded {
			continue
		}
		t.index[col] = len(t.columns)
		t.columns = append(t.columns, col)
		keep = append(keep, i)
	}

	t.cells = make([][]Optional[string], len(raw.Rows))
	for r, row := range raw.Rows {
		cells := make([]Optional[string], len(keep))
		for j, i := range keep {
			if i < len(row) {
				cells[j] = row[i]
			}
		}
		t.cells[r] = cells
	}

	if col, ok := t.index[ColDateAdded]; ok {
		t.dateAdded = make([]Optional[time.Time], len(t.cells))
		t.yearAdded = make([]Optional[int], len(t.cells))
		for r, cells := range t.cells {
			s, ok := cells[col].Get()
			if !ok {
				continue
			}
			if d, ok := ParseDate(s); ok {
				t.dateAdded[r] = Some(d)
				t.yearAdded[r] = Some(d.Year())
			}
		}
		t.index[ColYearAdded] = len(t.columns)
		t.columns = append(t.columns, ColYearAdded)
	}

	if col, ok := t.index[ColReleaseYear]; ok {
		t.releaseYear = make([]Optional[float64], len(t.cells))
		for r, cells := range t.cells {
			s, ok := cells[col].Get()
			if !ok {
				continue
			}
			if v, ok := ParseNumber(s); ok {
				t.releaseYear[r] = Some(v)
			}
		}
	}

	return t
}

// Name is the name of the file the table was loaded from.
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.cells) }

// Columns returns the column names in display order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns a *MissingColumnError for the first absent column.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return &MissingColumnError{Column: name}
		}
	}
	return nil
}

// Strings yields the raw string values of a column. An absent column
// yields nothing.
func (t *Table) Strings(col string) iter.Seq[Optional[string]] {
	return func(yield func(Optional[string]) bool) {
		i, ok := t.index[col]
		if !ok || col == ColYearAdded {
			return
		}
		for _, cells := range t.cells {
			if !yield(cells[i]) {
				return
			}
		}
	}
}

// Rows yields every row in file order.
func (t *Table) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := range t.cells {
			if !yield(i, Row{t: t, i: i}) {
				return
			}
		}
	}
}

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Cell returns the display value of a cell: coerced columns are rendered
// from their typed values, everything else as read.
func (t *Table) Cell(i int, col string) Optional[string] {
	switch {
	case col == ColDateAdded && t.dateAdded != nil:
		if d, ok := t.dateAdded[i].Get(); ok {
			return Some(d.Format(DateFormat))
		}
		return None[string]()
	case col == ColYearAdded && t.yearAdded != nil:
		if y, ok := t.yearAdded[i].Get(); ok {
			return Some(strconv.Itoa(y))
		}
		return None[string]()
	case col == ColReleaseYear && t.releaseYear != nil:
		if v, ok := t.releaseYear[i].Get(); ok {
			return Some(FormatNumber(v))
		}
		return None[string]()
	}
	j, ok := t.index[col]
	if !ok {
		return None[string]()
	}
	return t.cells[i][j]
}

// FormatNumber renders integral values without a fractional part.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row is a typed view of one table row.
type Row struct {
	t *Table
	i int
}

func (r Row) str(col string) Optional[string] {
	j, ok := r.t.index[col]
	if !ok {
		return None[string]()
	}
	return r.t.cells[r.i][j]
}

func (r Row) Type() Optional[string]     { return r.str(ColType) }
func (r Row) Genre() Optional[string]    { return r.str(ColGenre) }
func (r Row) Country() Optional[string]  { return r.str(ColCountry) }
func (r Row) Director() Optional[string] { return r.str(ColDirector) }
func (r Row) Duration() Optional[string] { return r.str(ColDuration) }

func (r Row) ReleaseYear() Optional[float64] {
	if r.t.releaseYear == nil {
		return None[float64]()
	}
	return r.t.releaseYear[r.i]
}

func (r Row) DateAdded() Optional[time.Time] {
	if r.t.dateAdded == nil {
		return None[time.Time]()
	}
	return r.t.dateAdded[r.i]
}

func (r Row) YearAdded() Optional[int] {
	if r.t.yearAdded == nil {
		return None[int]()
	}
	return r.t.yearAdded[r.i]
}
