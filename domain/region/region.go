package region

import (
	"image/color"
	"strings"

	"covid-spread/domain/timeseries"
)

// Spec describes one plotted country or region
type Spec struct {
	Name       string
	Selector   timeseries.Selector
	Color      color.RGBA
	Population float64

	// Restriction is the day travel restrictions or a shutdown started, if known
	Restriction *timeseries.Day
}

// Region is a Spec together with its loaded series
type Region struct {
	Spec
	Confirmed timeseries.Series
	Deaths    timeseries.Series
	Recovered timeseries.Series // empty when no recovered table is loaded
}

// Until returns a copy of the region truncated to days <= max
func (r Region) Until(max timeseries.Day) Region {
	out := r
	out.Confirmed = r.Confirmed.Until(max)
	out.Deaths = r.Deaths.Until(max)
	out.Recovered = r.Recovered.Until(max)
	return out
}

// Find returns the region with the given name (case-insensitive)
func Find(regions []Region, name string) (Region, bool) {
	for _, r := range regions {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Region{}, false
}
