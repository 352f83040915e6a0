package metrics

import (
	"testing"

	"covid-spread/domain/timeseries"

	"github.com/google/go-cmp/cmp"
)

func series(values ...float64) timeseries.Series {
	days := make([]timeseries.Day, len(values))
	for i := range values {
		days[i] = timeseries.Day(i)
	}
	return timeseries.Series{Days: days, Values: values}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"peak_share", PeakShare, false},
		{"", PeakShare, false},
		{"PER_CAPITA", PerCapita, false},
		{" per_capita ", PerCapita, false},
		{"per_million", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizer_PeakShare(t *testing.T) {
	n := NewNormalizer(PeakShare)

	got := n.Apply(series(0, 50, 200), series(0, 2, 10), timeseries.Series{}, 0)

	if got.Peak != 200 {
		t.Errorf("Peak = %v, want 200", got.Peak)
	}
	if diff := cmp.Diff([]float64{0, 25, 100}, got.Confirmed); diff != "" {
		t.Errorf("Confirmed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 1, 5}, got.Deaths); diff != "" {
		t.Errorf("Deaths mismatch (-want +got):\n%s", diff)
	}
	if got.Recovered != nil {
		t.Errorf("Recovered = %v, want nil", got.Recovered)
	}
}

func TestNormalizer_PeakShareWithoutCases(t *testing.T) {
	n := NewNormalizer(PeakShare)

	got := n.Apply(series(0, 0), series(0, 0), series(0, 0), 0)

	if diff := cmp.Diff([]float64{0, 0}, got.Confirmed); diff != "" {
		t.Errorf("Confirmed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0}, got.Recovered); diff != "" {
		t.Errorf("Recovered mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_PerCapita(t *testing.T) {
	n := NewNormalizer(PerCapita)

	got := n.Apply(series(1000, 2000), series(10, 40), series(0, 500), 2_000_000)

	if diff := cmp.Diff([]float64{50, 100}, got.Confirmed); diff != "" {
		t.Errorf("Confirmed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.5, 2}, got.Deaths); diff != "" {
		t.Errorf("Deaths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 25}, got.Recovered); diff != "" {
		t.Errorf("Recovered mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_AxisLabel(t *testing.T) {
	if got := NewNormalizer(PeakShare).AxisLabel(); got != "Fraction of total infected in country/region [x100]" {
		t.Errorf("peak share label = %q", got)
	}
	if got := NewNormalizer(PerCapita).AxisLabel(); got != "Cases per 100,000 population" {
		t.Errorf("per capita label = %q", got)
	}
}
