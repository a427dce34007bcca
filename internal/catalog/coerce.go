package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// nullTokens are the cell values read as missing, in addition to the empty
// string.
var nullTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {},
	"None": {}, "#N/A": {}, "n/a": {}, "<NA>": {}, "-NaN": {}, "-nan": {},
	"#NA": {}, "1.#IND": {}, "1.#QNAN": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"#N/A N/A": {},
}

// IsNull reports whether a raw cell value denotes a missing value.
func IsNull(s string) bool {
	if s == "" {
		return true
	}
	_, ok := nullTokens[s]
	return ok
}

// Month-first layouts are tried before day-first ones.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"2-Jan-06",
	"02-Jan-2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses s using the known date layouts. Leading, trailing and
// repeated inner spaces are ignored.
func ParseDate(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses s as a finite number.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var leadingNumber = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)`)

// LeadingNumber returns the number a value such as "90 min" starts with.
func LeadingNumber(s string) (float64, bool) {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return ParseNumber(m[1])
}
