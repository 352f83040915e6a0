package metrics

import (
	"fmt"
	"strings"

	"covid-spread/domain/timeseries"

	"github.com/dustin/go-humanize"
)

// Mode selects how raw counts are scaled before plotting
type Mode string

const (
	// PeakShare divides by the largest confirmed count in the window
	PeakShare Mode = "peak_share"

	// PerCapita divides by population
	PerCapita Mode = "per_capita"
)

// Default scales for each mode
const (
	PeakShareScale = 100.0
	PerCapitaScale = 100000.0
)

// ParseMode parses a normalization mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case PeakShare, "":
		return PeakShare, nil
	case PerCapita:
		return PerCapita, nil
	}
	return "", fmt.Errorf("unknown normalization %q: expected %s or %s", s, PeakShare, PerCapita)
}

// Normalizer scales raw series into plot values
type Normalizer struct {
	Mode  Mode
	Scale float64
}

// NewNormalizer returns a normalizer with the mode's default scale
func NewNormalizer(mode Mode) Normalizer {
	if mode == PerCapita {
		return Normalizer{Mode: PerCapita, Scale: PerCapitaScale}
	}
	return Normalizer{Mode: PeakShare, Scale: PeakShareScale}
}

// Normalized holds scaled series for one region and window
type Normalized struct {
	Confirmed []float64
	Deaths    []float64
	Recovered []float64

	// Peak is the largest raw confirmed count in the window
	Peak float64
}

// Apply scales the series. A peak-share window without any confirmed case
// yields zeros.
func (n Normalizer) Apply(confirmed, deaths, recovered timeseries.Series, population float64) Normalized {
	peak := confirmed.Max()

	var divisor float64
	switch n.Mode {
	case PerCapita:
		divisor = population
	default:
		divisor = peak
	}

	scale := func(values []float64) []float64 {
		if len(values) == 0 {
			return nil
		}
		out := make([]float64, len(values))
		if divisor <= 0 {
			return out
		}
		for i, v := range values {
			out[i] = v * n.Scale / divisor
		}
		return out
	}

	return Normalized{
		Confirmed: scale(confirmed.Values),
		Deaths:    scale(deaths.Values),
		Recovered: scale(recovered.Values),
		Peak:      peak,
	}
}

// AxisLabel returns the y axis label for the mode
func (n Normalizer) AxisLabel() string {
	if n.Mode == PerCapita {
		return fmt.Sprintf("Cases per %s population", formatScale(n.Scale))
	}
	return fmt.Sprintf("Fraction of total infected in country/region [x%s]", formatScale(n.Scale))
}

func formatScale(v float64) string {
	return humanize.Comma(int64(v))
}
