package util

import (
	"fmt"
	"strings"
	"time"
)

// DayMonthYear is the DD-MM-YYYY layout used by price CSVs and API payloads.
const DayMonthYear = "02-01-2006"

// dayMonthYearLoose also accepts one-digit day and month, e.g. 5-3-2024.
const dayMonthYearLoose = "2-1-2006"

// ParseDMY parses a D-M-YYYY or DD-MM-YYYY date as a UTC calendar day.
func ParseDMY(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayMonthYearLoose, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDMY renders t as DD-MM-YYYY.
func FormatDMY(t time.Time) string {
	return t.Format(DayMonthYear)
}

// NextDays returns the n calendar days following s, formatted as DD-MM-YYYY.
func NextDays(s string, n int) ([]string, error) {
	start, err := ParseDMY(s)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, FormatDMY(start.AddDate(0, 0, i)))
	}
	return out, nil
}
