package metrics

import (
	"covid-spread/domain/region"
	"covid-spread/domain/timeseries"
)

// Summary is the latest state of one region
type Summary struct {
	Region          string
	Day             timeseries.Day
	Confirmed       float64
	Deaths          float64
	Recovered       float64
	HasRecovered    bool
	DeathsPer100k   float64
	CasesPer100k    float64
	CaseFatality    float64 // deaths / confirmed, 0 without cases
	DailyNewDeaths  float64
	DailyNewConfirm float64
}

// Summarize computes the latest figures of a region
func Summarize(r region.Region) Summary {
	s := Summary{Region: r.Name}

	day, confirmed, ok := r.Confirmed.Last()
	if !ok {
		return s
	}
	s.Day = day
	s.Confirmed = confirmed
	s.Deaths, _ = r.Deaths.At(day)
	if v, ok := r.Recovered.At(day); ok {
		s.Recovered = v
		s.HasRecovered = true
	}

	if r.Population > 0 {
		s.DeathsPer100k = s.Deaths * PerCapitaScale / r.Population
		s.CasesPer100k = s.Confirmed * PerCapitaScale / r.Population
	}
	if s.Confirmed > 0 {
		s.CaseFatality = s.Deaths / s.Confirmed
	}

	s.DailyNewConfirm = s.Confirmed - previous(r.Confirmed, day)
	s.DailyNewDeaths = s.Deaths - previous(r.Deaths, day)
	return s
}

// SummarizeAll summarizes every region, keeping order
func SummarizeAll(regions []region.Region) []Summary {
	out := make([]Summary, 0, len(regions))
	for _, r := range regions {
		out = append(out, Summarize(r))
	}
	return out
}

func previous(s timeseries.Series, day timeseries.Day) float64 {
	v, _ := s.At(day - 1)
	return v
}
