package dataprocessing

import (
	"strconv"
	"strings"
	"time"
)

// serialEpoch is the spreadsheet day-zero (the Lotus/Excel 1900 system with
// its leap-year bug already accounted for).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts is the fixed parse priority for string dates. First match wins;
// the order is part of the compatibility contract with the upstream export
// and deliberately resolves ambiguous inputs like "01/02/2024" as MM/dd
// rather than attempting locale detection.
var dateLayouts = []string{
	"02-01-2006", // dd-MM-yyyy
	"01/02/2006", // MM/dd/yyyy
	"2006-01-02", // yyyy-MM-dd
	"02/01/2006", // dd/MM/yyyy
}

// isoLayouts is the generic fallback tried against the unmodified raw value.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeDate parses a heterogeneous raw date cell into a calendar date.
// It accepts spreadsheet serial numbers (excelize surfaces numeric cells as
// their serial string), the four fixed string layouts, and ISO-style strings,
// in that priority. It returns nil for anything unparseable and never fails.
func NormalizeDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	// Spreadsheet serial date: days since the 1899-12-30 epoch, possibly
	// with a fractional time-of-day component.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial > 1 {
			d := serialEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
			return &d
		}
		return nil
	}

	// Strip a trailing time-of-day component before the fixed-layout pass.
	dateStr := raw
	if i := strings.IndexByte(dateStr, ' '); i >= 0 {
		dateStr = dateStr[:i]
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, dateStr); err == nil {
			return &d
		}
	}

	for _, layout := range isoLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return &d
		}
	}

	return nil
}

// daysBetween returns the absolute difference between two dates in whole
// days, truncating any partial day.
func daysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}
