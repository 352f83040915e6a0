package csvsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"covid-spread/domain/timeseries"

	"github.com/google/go-cmp/cmp"
)

const sample = `Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,1/24/20
Hubei,China,30.97,112.27,444,444,549
Beijing,China,40.18,116.41,14,22,36
,Italy,41.87,12.56,0,0,0
Reunion,France,-21.11,55.53,0,0,1
,France,46.22,2.21,0,0,2
"Bonaire, Sint Eustatius and Saba",Netherlands,12.17,-68.23,0,,0
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(sample), "confirmed", timeseries.DefaultReferenceDate)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	if diff := cmp.Diff([]timeseries.Day{0, 1, 2}, table.Days); diff != "" {
		t.Errorf("Days mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(table.Rows))
	}

	italy := table.Rows[2]
	if italy.Province != "" || italy.Country != "Italy" {
		t.Errorf("row 2 = %+v, want country-level Italy", italy)
	}

	hubei := table.Rows[0]
	if diff := cmp.Diff(map[timeseries.Day]float64{0: 444, 1: 444, 2: 549}, hubei.Values); diff != "" {
		t.Errorf("Hubei values mismatch (-want +got):\n%s", diff)
	}

	bonaire := table.Rows[5]
	if bonaire.Province != "Bonaire, Sint Eustatius and Saba" {
		t.Errorf("quoted province = %q", bonaire.Province)
	}
	if _, ok := bonaire.Values[1]; ok {
		t.Error("empty cell should be left out")
	}
}

func TestParse_SelectsLikeTheDefaultRegions(t *testing.T) {
	table, err := Parse(strings.NewReader(sample), "confirmed", timeseries.DefaultReferenceDate)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		sel  timeseries.Selector
		want []float64
	}{
		{"hubei", timeseries.Selector{Country: "China", Province: timeseries.Exactly("Hubei")}, []float64{444, 444, 549}},
		{"china", timeseries.Selector{Country: "China", Province: timeseries.AnyProvince()}, []float64{458, 466, 585}},
		{"france mainland", timeseries.Selector{Country: "France", Province: timeseries.NoProvince()}, []float64{0, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := table.Select(tt.sel)
			if err != nil {
				t.Fatalf("Select() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, s.Values); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ReferenceDateShiftsDays(t *testing.T) {
	ref, err := timeseries.ParseReferenceDate("2020-01-20")
	if err != nil {
		t.Fatal(err)
	}

	table, err := Parse(strings.NewReader(sample), "confirmed", ref)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]timeseries.Day{2, 3, 4}, table.Days); diff != "" {
		t.Errorf("Days mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		errContains string
	}{
		{"no country column", "Province/State,Lat,1/22/20\nHubei,1,2\n", "missing"},
		{"no date columns", "Province/State,Country/Region,Lat,Long\nHubei,China,1,2\n", "no date columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "deaths", timeseries.DefaultReferenceDate)
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Parse() error = %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}

func TestReader_ReadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deaths.csv")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := NewReader().ReadTable(path, "deaths", timeseries.DefaultReferenceDate)
	if err != nil {
		t.Fatalf("ReadTable() unexpected error: %v", err)
	}
	if table.Name != "deaths" {
		t.Errorf("Name = %q, want deaths", table.Name)
	}

	_, err = NewReader().ReadTable(filepath.Join(t.TempDir(), "missing.csv"), "deaths", timeseries.DefaultReferenceDate)
	if err == nil {
		t.Error("ReadTable() expected error for a missing file")
	}
}
