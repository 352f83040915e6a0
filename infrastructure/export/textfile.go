package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"covid-spread/domain/metrics"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

const textfileMode = 0644

// TextfileExporter writes the latest figures in the Prometheus text format,
// for the node_exporter textfile collector
type TextfileExporter struct {
	path string
}

// NewTextfileExporter creates an exporter writing to path
func NewTextfileExporter(path string) *TextfileExporter {
	return &TextfileExporter{path: path}
}

// Name identifies the exporter in progress output
func (t *TextfileExporter) Name() string {
	return "textfile"
}

// Path returns the output file
func (t *TextfileExporter) Path() string {
	return t.path
}

// Export replaces the textfile atomically
func (t *TextfileExporter) Export(ctx context.Context, report metrics.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create textfile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".covid-spread-*.prom")
	if err != nil {
		return fmt.Errorf("failed to create textfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteText(tmp, report.Summaries); err != nil {
		tmp.Close()
		return err
	}
	// CreateTemp uses 0600; the collector must be able to read the file
	if err := tmp.Chmod(textfileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set textfile permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write textfile: %w", err)
	}

	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("failed to replace textfile: %w", err)
	}
	return nil
}

// WriteText writes one gauge family per figure, labelled by region
func WriteText(w io.Writer, summaries []metrics.Summary) error {
	for _, mf := range Families(summaries) {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Families converts summaries into metric families
func Families(summaries []metrics.Summary) []*dto.MetricFamily {
	type gauge struct {
		name  string
		help  string
		value func(metrics.Summary) (float64, bool)
	}

	always := func(f func(metrics.Summary) float64) func(metrics.Summary) (float64, bool) {
		return func(s metrics.Summary) (float64, bool) { return f(s), true }
	}

	gauges := []gauge{
		{"covid_confirmed_cases", "Cumulative confirmed cases.", always(func(s metrics.Summary) float64 { return s.Confirmed })},
		{"covid_deaths", "Cumulative deaths.", always(func(s metrics.Summary) float64 { return s.Deaths })},
		{"covid_recovered", "Cumulative recoveries.", func(s metrics.Summary) (float64, bool) { return s.Recovered, s.HasRecovered }},
		{"covid_new_cases", "Confirmed cases added on the latest day.", always(func(s metrics.Summary) float64 { return s.DailyNewConfirm })},
		{"covid_new_deaths", "Deaths added on the latest day.", always(func(s metrics.Summary) float64 { return s.DailyNewDeaths })},
		{"covid_cases_per_100k", "Confirmed cases per 100,000 population.", always(func(s metrics.Summary) float64 { return s.CasesPer100k })},
		{"covid_deaths_per_100k", "Deaths per 100,000 population.", always(func(s metrics.Summary) float64 { return s.DeathsPer100k })},
		{"covid_case_fatality_ratio", "Deaths divided by confirmed cases.", always(func(s metrics.Summary) float64 { return s.CaseFatality })},
		{"covid_latest_day", "Day offset of the latest data point.", always(func(s metrics.Summary) float64 { return float64(s.Day) })},
	}

	var families []*dto.MetricFamily
	for _, g := range gauges {
		mf := &dto.MetricFamily{
			Name: proto.String(g.name),
			Help: proto.String(g.help),
			Type: dto.MetricType_GAUGE.Enum(),
		}
		for _, s := range summaries {
			v, ok := g.value(s)
			if !ok {
				continue
			}
			mf.Metric = append(mf.Metric, &dto.Metric{
				Label: []*dto.LabelPair{{Name: proto.String("region"), Value: proto.String(s.Region)}},
				Gauge: &dto.Gauge{Value: proto.Float64(v)},
			})
		}
		if len(mf.Metric) > 0 {
			families = append(families, mf)
		}
	}
	return families
}
