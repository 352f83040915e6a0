package timeseries

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSeries_Until(t *testing.T) {
	s := Series{Days: []Day{0, 1, 2, 3, 4}, Values: []float64{1, 2, 3, 4, 5}}

	tests := []struct {
		name string
		max  Day
		want Series
	}{
		{"middle", 2, Series{Days: []Day{0, 1, 2}, Values: []float64{1, 2, 3}}},
		{"past end", 10, s},
		{"before start", -1, Series{Days: []Day{}, Values: []float64{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Until(tt.max)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Until(%d) mismatch (-want +got):\n%s", tt.max, diff)
			}
		})
	}
}

func TestSeries_At(t *testing.T) {
	s := Series{Days: []Day{0, 2, 4}, Values: []float64{10, 20, 40}}

	if v, ok := s.At(2); !ok || v != 20 {
		t.Errorf("At(2) = %v, %v; want 20, true", v, ok)
	}
	if _, ok := s.At(3); ok {
		t.Error("At(3) should not be found")
	}
	if _, ok := s.At(5); ok {
		t.Error("At(5) should not be found")
	}
}

func TestSeries_MaxAndLast(t *testing.T) {
	s := Series{Days: []Day{5, 6, 7}, Values: []float64{3, 9, 7}}

	if got := s.Max(); got != 9 {
		t.Errorf("Max() = %v, want 9", got)
	}

	day, v, ok := s.Last()
	if !ok || day != 7 || v != 7 {
		t.Errorf("Last() = %d, %v, %v; want 7, 7, true", day, v, ok)
	}

	var empty Series
	if empty.Max() != 0 {
		t.Error("Max() of empty series should be 0")
	}
	if _, _, ok := empty.Last(); ok {
		t.Error("Last() of empty series should report false")
	}
}

func TestSeries_DaysFrom(t *testing.T) {
	s := Series{Days: []Day{0, 3, 5, 6, 9}, Values: make([]float64, 5)}

	if diff := cmp.Diff([]Day{5, 6, 9}, s.DaysFrom(5, 0)); diff != "" {
		t.Errorf("DaysFrom(5, 0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Day{3, 5, 6}, s.DaysFrom(1, 6)); diff != "" {
		t.Errorf("DaysFrom(1, 6) mismatch (-want +got):\n%s", diff)
	}
}
