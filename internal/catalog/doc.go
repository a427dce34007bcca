// Package catalog loads an uploaded catalog export into an immutable,
// normalized table.
//
// # Loading
//
// ReadRaw accepts comma-separated text (UTF-8, optionally with a UTF-8 or
// UTF-16 byte order mark) or an XLSX workbook, whose first sheet is used.
// The first row is the header. Anything that cannot be read as a table is
// reported as ErrUnreadableFile and no partial table is produced.
//
// # Normalization
//
// Normalize coerces the well-known columns and derives new ones:
//
//	date_added   → date, null when it does not parse
//	release_year → number, null when it does not parse
//	year_added   ← calendar year of date_added (never read from input)
//
// No rows are dropped and coercion never fails. Columns the dashboard does
// not know about are carried through untouched so the preview and summary
// see the whole file.
//
// # Multi-value columns
//
// genre, country and director hold lists joined with ", ". Explode turns a
// column into a lazy sequence of individual tokens:
//
//	for director := range catalog.Explode(t.Strings(catalog.ColDirector), catalog.ListSeparator) {
//	    counts[director]++
//	}
package catalog
