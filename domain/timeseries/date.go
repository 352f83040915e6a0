package timeseries

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Day is a number of days since the reference date
type Day int

// DefaultReferenceDate is the first date covered by the CSSE time series
var DefaultReferenceDate = time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC)

// dateHeaderRegex matches CSSE date columns like 1/22/20 or 12/3/21
var dateHeaderRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)

// ParseDateHeader parses a column header in M/D/YY format.
// The second return value is false for metadata columns.
func ParseDateHeader(header string) (time.Time, bool) {
	matches := dateHeaderRegex.FindStringSubmatch(header)
	if matches == nil {
		return time.Time{}, false
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	date := time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 2/30 into March; reject those
	if date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

// ParseReferenceDate parses a YYYY-MM-DD date
func ParseReferenceDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DayOffset returns the number of calendar days from ref to date
func DayOffset(ref, date time.Time) Day {
	r := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Day(d.Sub(r).Hours() / 24)
}

// DateOf returns the calendar date that is day days after ref
func DateOf(ref time.Time, day Day) time.Time {
	r := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return r.AddDate(0, 0, int(day))
}
