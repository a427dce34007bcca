package exporter

import "strconv"

// formatFloat formats a value with the fewest digits that round-trip, so
// counts print as integers
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an integer value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
