package timeseries

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoRows is returned when a selector matches no rows in a table
var ErrNoRows = errors.New("no matching rows")

// Row is one Province/State + Country/Region line of a time-series table
type Row struct {
	Province string
	Country  string
	Values   map[Day]float64
}

// Table is a CSSE time-series table with date columns mapped to day offsets
type Table struct {
	Name string
	Days []Day
	Rows []Row
}

// NewTable creates a table and normalizes its day list
func NewTable(name string, rows []Row) *Table {
	seen := make(map[Day]bool)
	var days []Day
	for _, r := range rows {
		for d := range r.Values {
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	return &Table{Name: name, Days: days, Rows: rows}
}

// ProvinceRule decides which Province/State values a selector accepts
type ProvinceRule struct {
	kind provinceKind
	name string
}

type provinceKind int

const (
	anyProvince provinceKind = iota
	noProvince
	exactProvince
)

// AnyProvince matches every row of the country
func AnyProvince() ProvinceRule { return ProvinceRule{kind: anyProvince} }

// NoProvince matches only the country-level row (empty province)
func NoProvince() ProvinceRule { return ProvinceRule{kind: noProvince} }

// Exactly matches one named province
func Exactly(name string) ProvinceRule { return ProvinceRule{kind: exactProvince, name: name} }

// Matches returns true if the province value is accepted
func (p ProvinceRule) Matches(province string) bool {
	switch p.kind {
	case noProvince:
		return province == ""
	case exactProvince:
		return strings.EqualFold(province, p.name)
	default:
		return true
	}
}

// String renders the rule the way it is written in config
func (p ProvinceRule) String() string {
	switch p.kind {
	case noProvince:
		return "-"
	case exactProvince:
		return p.name
	default:
		return ""
	}
}

// Selector picks the rows making up one region
type Selector struct {
	Country  string
	Province ProvinceRule
}

// Matches returns true if the row belongs to the selection
func (s Selector) Matches(r Row) bool {
	return strings.EqualFold(r.Country, s.Country) && s.Province.Matches(r.Province)
}

func (s Selector) String() string {
	switch s.Province.kind {
	case noProvince:
		return s.Country + " (country level)"
	case exactProvince:
		return s.Country + "/" + s.Province.name
	default:
		return s.Country
	}
}

// Select sums all matching rows day by day
func (t *Table) Select(sel Selector) (Series, error) {
	matched := 0
	sums := make([]float64, len(t.Days))
	for _, r := range t.Rows {
		if !sel.Matches(r) {
			continue
		}
		matched++
		for i, d := range t.Days {
			sums[i] += r.Values[d]
		}
	}

	if matched == 0 {
		return Series{}, fmt.Errorf("%w: %s in %s table", ErrNoRows, sel, t.Name)
	}

	days := make([]Day, len(t.Days))
	copy(days, t.Days)
	return Series{Days: days, Values: sums}, nil
}
