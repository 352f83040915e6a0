package metrics

import (
	"time"

	"covid-spread/domain/region"
)

// Report bundles the loaded regions with their latest summaries
type Report struct {
	Reference time.Time
	Regions   []region.Region
	Summaries []Summary
}

// NewReport summarizes regions into a report
func NewReport(reference time.Time, regions []region.Region) Report {
	return Report{
		Reference: reference,
		Regions:   regions,
		Summaries: SummarizeAll(regions),
	}
}
