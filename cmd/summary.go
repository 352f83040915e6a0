package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"covid-spread/application/dataset"
	"covid-spread/application/pipeline"
	"covid-spread/domain/metrics"
	"covid-spread/domain/timeseries"
	"covid-spread/domain/video"
	"covid-spread/infrastructure/config"
	"covid-spread/infrastructure/csvsource"
	"covid-spread/infrastructure/filesystem"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	summaryWorkbook string
	summaryTextfile string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the latest figures of every region",
	Long: `Load the data tables and print the latest cumulative counts, daily increase,
per-capita rates and case fatality of every configured region.

Use --workbook and --textfile to also write an .xlsx workbook or a Prometheus
textfile with the same figures.

Example:
  covid-spread summary
  covid-spread summary --workbook summary.xlsx --textfile covid.prom`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryWorkbook, "workbook", "", "Also write an .xlsx workbook to this path")
	summaryCmd.Flags().StringVar(&summaryTextfile, "textfile", "", "Also write a Prometheus textfile to this path")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	return RunSummaryWithDependencies(
		cmd.Context(),
		cfg,
		csvsource.NewReader(),
		filesystem.NewChecker(),
		newExporters(summaryWorkbook, summaryTextfile),
		os.Stdout,
	)
}

// RunSummaryWithDependencies runs the summary command with injected dependencies (for testing)
func RunSummaryWithDependencies(
	ctx context.Context,
	cfg *config.Config,
	reader dataset.TableReader,
	fileChecker video.FileChecker,
	exporters []pipeline.Exporter,
	output io.Writer,
) error {
	ref, err := cfg.ReferenceDate()
	if err != nil {
		return err
	}
	specs, err := cfg.RegionSpecs()
	if err != nil {
		return err
	}

	ds, err := dataset.NewService(reader, fileChecker, logger).Load(ctx, dataset.Sources{
		Confirmed: cfg.Data.Confirmed,
		Deaths:    cfg.Data.Deaths,
		Recovered: cfg.Data.Recovered,
		Reference: ref,
	})
	if err != nil {
		return err
	}
	regions, err := ds.Regions(specs)
	if err != nil {
		return err
	}

	report := metrics.NewReport(ref, regions)
	if err := writeSummaries(output, ref, report.Summaries); err != nil {
		return err
	}

	for _, e := range exporters {
		if err := e.Export(ctx, report); err != nil {
			return fmt.Errorf("%s export failed: %w", e.Name(), err)
		}
		fmt.Fprintf(output, "Wrote %s: %s\n", e.Name(), e.Path())
	}
	return nil
}

func writeSummaries(output io.Writer, ref time.Time, summaries []metrics.Summary) error {
	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tDATE\tCONFIRMED\tNEW\tDEATHS\tNEW\tPER 100K\tFATALITY")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Region,
			timeseries.DateOf(ref, s.Day).Format("2006-01-02"),
			humanize.Comma(int64(s.Confirmed)),
			signed(s.DailyNewConfirm),
			humanize.Comma(int64(s.Deaths)),
			signed(s.DailyNewDeaths),
			humanize.FormatFloat("#,###.#", s.CasesPer100k),
			fmt.Sprintf("%.1f%%", s.CaseFatality*100),
		)
	}
	return w.Flush()
}

func signed(v float64) string {
	if v > 0 {
		return "+" + humanize.Comma(int64(v))
	}
	return humanize.Comma(int64(v))
}
