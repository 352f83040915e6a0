package timeseries

import "sort"

// Series is a per-day sequence of values, ascending by day
type Series struct {
	Days   []Day
	Values []float64
}

// Len returns the number of points
func (s Series) Len() int {
	return len(s.Days)
}

// IsEmpty returns true if the series has no points
func (s Series) IsEmpty() bool {
	return len(s.Days) == 0
}

// Until returns the prefix of the series with days <= max
func (s Series) Until(max Day) Series {
	n := sort.Search(len(s.Days), func(i int) bool { return s.Days[i] > max })
	return Series{Days: s.Days[:n], Values: s.Values[:n]}
}

// At returns the value recorded for day
func (s Series) At(day Day) (float64, bool) {
	i := sort.Search(len(s.Days), func(i int) bool { return s.Days[i] >= day })
	if i < len(s.Days) && s.Days[i] == day {
		return s.Values[i], true
	}
	return 0, false
}

// Max returns the largest value, or 0 for an empty series
func (s Series) Max() float64 {
	var max float64
	for i, v := range s.Values {
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}

// Last returns the final day and value
func (s Series) Last() (Day, float64, bool) {
	if len(s.Days) == 0 {
		return 0, 0, false
	}
	n := len(s.Days) - 1
	return s.Days[n], s.Values[n], true
}

// DaysFrom returns the days of the series in [min, max]; max <= 0 means no upper bound
func (s Series) DaysFrom(min, max Day) []Day {
	var days []Day
	for _, d := range s.Days {
		if d < min {
			continue
		}
		if max > 0 && d > max {
			break
		}
		days = append(days, d)
	}
	return days
}

// Floats returns the days as float64 x values
func (s Series) Floats() []float64 {
	xs := make([]float64, len(s.Days))
	for i, d := range s.Days {
		xs[i] = float64(d)
	}
	return xs
}
