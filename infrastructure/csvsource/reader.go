package csvsource

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"covid-spread/domain/timeseries"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the CSSE time-series tables
const (
	ProvinceColumn = "Province/State"
	CountryColumn  = "Country/Region"
)

// droppedColumns are removed on load
var droppedColumns = []string{"Lat", "Long"}

// Reader loads CSSE time-series CSV files into tables
type Reader struct{}

// NewReader creates a new CSV reader
func NewReader() *Reader {
	return &Reader{}
}

// ReadTable reads the CSV file at path. Date headers are mapped to day offsets from ref.
func (r *Reader) ReadTable(path, name string, ref time.Time) (*timeseries.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s table: %w", name, err)
	}
	defer f.Close()

	table, err := Parse(f, name, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse reads a time-series table from r
func Parse(r io.Reader, name string, ref time.Time) (*timeseries.Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse %s table: %w", name, df.Err)
	}

	df = dropColumns(df, droppedColumns)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to drop columns of %s table: %w", name, df.Err)
	}

	names := df.Names()
	if !contains(names, ProvinceColumn) || !contains(names, CountryColumn) {
		return nil, fmt.Errorf("%s table: missing %q or %q column", name, ProvinceColumn, CountryColumn)
	}

	provinces := df.Col(ProvinceColumn).Records()
	countries := df.Col(CountryColumn).Records()

	rows := make([]timeseries.Row, df.Nrow())
	for i := range rows {
		rows[i] = timeseries.Row{
			Province: cleanProvince(provinces[i]),
			Country:  strings.TrimSpace(countries[i]),
			Values:   make(map[timeseries.Day]float64),
		}
	}

	dateColumns := 0
	for _, col := range names {
		date, ok := timeseries.ParseDateHeader(col)
		if !ok {
			continue
		}
		dateColumns++
		day := timeseries.DayOffset(ref, date)

		for i, v := range df.Col(col).Float() {
			// empty or malformed cells are left out of the row
			if math.IsNaN(v) {
				continue
			}
			rows[i].Values[day] = v
		}
	}
	if dateColumns == 0 {
		return nil, fmt.Errorf("%s table: no date columns", name)
	}

	return timeseries.NewTable(name, rows), nil
}

func dropColumns(df dataframe.DataFrame, cols []string) dataframe.DataFrame {
	var present []string
	names := df.Names()
	for _, c := range cols {
		if contains(names, c) {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return df
	}
	return df.Drop(present)
}

func cleanProvince(s string) string {
	s = strings.TrimSpace(s)
	if s == "NaN" {
		return ""
	}
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
