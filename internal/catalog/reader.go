package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	zipMagic   = []byte("PK\x03\x04")
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// sniffLen bounds how much of the input is inspected for binary content.
const sniffLen = 8 << 10

// RawTable is an uploaded file as read, before any coercion.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]Optional[string]
}

// ReadRaw reads an uploaded file into a RawTable. XLSX workbooks are
// recognised by their ZIP signature; everything else is treated as
// comma-separated text.
func ReadRaw(ctx context.Context, name string, r io.Reader) (*RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, unreadable(name, 0, "read failed", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, unreadable(name, 0, "file is empty", nil)
	}
	if bytes.HasPrefix(data, zipMagic) {
		return readWorkbook(ctx, name, data)
	}
	return readDelimited(ctx, name, data)
}

func readDelimited(ctx context.Context, name string, data []byte) (*RawTable, error) {
	wide := bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM)
	if !wide {
		if bytes.IndexByte(data[:min(len(data), sniffLen)], 0) >= 0 {
			return nil, unreadable(name, 0, "binary content", nil)
		}
		if !utf8.Valid(data) {
			return nil, unreadable(name, 0, "text is not valid UTF-8", nil)
		}
	}

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, unreadable(name, 0, "decode failed", err)
	}

	raw, err := parseDelimited(ctx, name, text, false)
	if errors.Is(err, csv.ErrBareQuote) {
		raw, err = parseDelimited(ctx, name, text, true)
	}
	return raw, err
}

// parseDelimited splits text into a RawTable. lazy accepts quotes inside
// unquoted fields, as pandas does.
func parseDelimited(ctx context.Context, name string, text []byte, lazy bool) (*RawTable, error) {
	cr := csv.NewReader(bytes.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = lazy

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, unreadable(name, 0, "file is empty", nil)
		}
		return nil, csvFailure(name, err)
	}

	raw := &RawTable{Name: name, Header: dedupeHeader(header)}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvFailure(name, err)
		}
		if len(record) > len(raw.Header) {
			line, _ := cr.FieldPos(0)
			return nil, unreadable(name, line,
				fmt.Sprintf("expected %d fields, saw %d", len(raw.Header), len(record)), nil)
		}
		raw.Rows = append(raw.Rows, toCells(record, len(raw.Header)))
	}
	return raw, nil
}

func csvFailure(name string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return unreadable(name, perr.Line, "malformed delimited text", perr.Err)
	}
	return unreadable(name, 0, "malformed delimited text", err)
}

func readWorkbook(ctx context.Context, name string, data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, unreadable(name, 0, "not a readable workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, unreadable(name, 0, "workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, unreadable(name, 0, "failed to read sheet "+sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, unreadable(name, 0, "sheet "+sheets[0]+" is empty", nil)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])

	raw := &RawTable{Name: name, Header: dedupeHeader(header)}
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw.Rows = append(raw.Rows, toCells(row, width))
	}
	return raw, nil
}

func toCells(record []string, width int) []Optional[string] {
	cells := make([]Optional[string], width)
	for i, v := range record {
		if !IsNull(v) {
			cells[i] = Some(v)
		}
	}
	return cells
}

// dedupeHeader names blank columns "Unnamed: i" and suffixes repeated
// names with ".1", ".2" and so on.
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for seen[name] {
			counts[h]++
			name = h + "." + strconv.Itoa(counts[h])
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
