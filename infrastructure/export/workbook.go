package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"covid-spread/domain/metrics"
	"covid-spread/domain/timeseries"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SummarySheet = "Summary"
	DailySheet   = "Daily"
)

var summaryHeaders = []string{
	"Region", "Day", "Date", "Confirmed", "Deaths", "Recovered",
	"New cases", "New deaths", "Cases per 100k", "Deaths per 100k", "Case fatality (%)",
}

// WorkbookExporter writes the report to an .xlsx workbook
type WorkbookExporter struct {
	path string
}

// NewWorkbookExporter creates an exporter writing to path
func NewWorkbookExporter(path string) *WorkbookExporter {
	return &WorkbookExporter{path: path}
}

// Name identifies the exporter in progress output
func (w *WorkbookExporter) Name() string {
	return "workbook"
}

// Path returns the output file
func (w *WorkbookExporter) Path() string {
	return w.path
}

// Export writes a summary sheet and a day-by-day sheet
func (w *WorkbookExporter) Export(ctx context.Context, report metrics.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(DailySheet); err != nil {
		return fmt.Errorf("failed to create daily sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeSummary(f, report, header); err != nil {
		return err
	}
	if err := writeDaily(f, report, header); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report metrics.Report, style int) error {
	if err := writeHeader(f, SummarySheet, summaryHeaders, style, 16); err != nil {
		return err
	}

	for i, s := range report.Summaries {
		row := []interface{}{
			s.Region,
			int(s.Day),
			timeseries.DateOf(report.Reference, s.Day).Format("2006-01-02"),
			s.Confirmed,
			s.Deaths,
			nil,
			s.DailyNewConfirm,
			s.DailyNewDeaths,
			s.CasesPer100k,
			s.DeathsPer100k,
			s.CaseFatality * 100,
		}
		if s.HasRecovered {
			row[5] = s.Recovered
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary of %s: %w", s.Region, err)
		}
	}
	return nil
}

// writeDaily writes one row per day with confirmed and deaths columns per region
func writeDaily(f *excelize.File, report metrics.Report, style int) error {
	headers := []string{"Day", "Date"}
	for _, r := range report.Regions {
		headers = append(headers, r.Name+" confirmed", r.Name+" deaths")
	}
	if err := writeHeader(f, DailySheet, headers, style, 14); err != nil {
		return err
	}

	days := allDays(report)
	for i, day := range days {
		row := []interface{}{int(day), timeseries.DateOf(report.Reference, day).Format("2006-01-02")}
		for _, r := range report.Regions {
			row = append(row, cellValue(r.Confirmed, day), cellValue(r.Deaths, day))
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DailySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write day %d: %w", day, err)
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int, width float64) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, width); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", end, style)
}

func cellValue(s timeseries.Series, day timeseries.Day) interface{} {
	if v, ok := s.At(day); ok {
		return v
	}
	return nil
}

func allDays(report metrics.Report) []timeseries.Day {
	var longest timeseries.Series
	for _, r := range report.Regions {
		if r.Confirmed.Len() > longest.Len() {
			longest = r.Confirmed
		}
	}
	return longest.Days
}
