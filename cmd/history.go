package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"covid-spread/domain/history"
	infrahistory "covid-spread/infrastructure/history"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded render runs",
	Long: `List the render runs recorded in exports.history_db, newest first.
Pass a run ID to show the per-region figures of that run.

Example:
  covid-spread history
  covid-spread history --limit 5
  covid-spread history 3f0c9d8e-5a1b-4c2e-9f7a-1b2c3d4e5f60`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 lists all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if cfg.Exports.HistoryDB == "" {
		return fmt.Errorf("exports.history_db is not set; no runs are recorded")
	}

	store, err := infrahistory.Open(cfg.Exports.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	return RunHistoryWithDependencies(cmd.Context(), store, id, historyLimit, os.Stdout)
}

// RunHistoryWithDependencies runs the history command with injected dependencies (for testing)
func RunHistoryWithDependencies(ctx context.Context, store history.Store, id string, limit int, output io.Writer) error {
	if id != "" {
		run, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeRun(output, run)
	}

	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(output, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tDAYS\tFRAMES\tBACKEND\tVIDEO")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\t%d\t%s\t%s\n",
			r.ID,
			humanize.Time(r.StartedAt),
			r.Duration().Round(time.Second),
			r.FirstDay, r.LastDay,
			r.Frames,
			r.Backend,
			videoColumn(r),
		)
	}
	return w.Flush()
}

func writeRun(output io.Writer, run history.Run) error {
	fmt.Fprintf(output, "Run %s\n", run.ID)
	fmt.Fprintf(output, "  Started:       %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(output, "  Duration:      %s\n", run.Duration().Round(time.Second))
	fmt.Fprintf(output, "  Days:          %d-%d (%d frames)\n", run.FirstDay, run.LastDay, run.Frames)
	fmt.Fprintf(output, "  Backend:       %s\n", run.Backend)
	fmt.Fprintf(output, "  Normalization: %s\n", run.Normalization)
	fmt.Fprintf(output, "  Video:         %s\n", videoColumn(run))
	fmt.Fprintln(output)

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tDAY\tCONFIRMED\tDEATHS\tFATALITY")
	for _, s := range run.Summaries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.1f%%\n",
			s.Region, s.Day,
			humanize.Comma(int64(s.Confirmed)),
			humanize.Comma(int64(s.Deaths)),
			s.CaseFatality*100)
	}
	return w.Flush()
}

func videoColumn(r history.Run) string {
	switch {
	case r.VideoURL != "":
		return r.VideoURL
	case r.VideoPath != "":
		return r.VideoPath
	default:
		return "-"
	}
}
