package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"covid-spread/infrastructure/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchSkipVideo bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render whenever the config or a data file changes",
	Long: `Render once, then watch the config file and the data tables and render
again each time one of them is written. An invalid config edit is logged and
the previous config stays active. Stop with Ctrl+C.

Example:
  covid-spread watch
  covid-spread watch --skip-video`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchSkipVideo, "skip-video", false, "Only render frames, do not encode or publish")
}

// RenderFunc runs one render with the given config
type RenderFunc func(ctx context.Context, cfg *config.Config) error

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	render := func(ctx context.Context, c *config.Config) error {
		adapters, release, err := newAdapters(ctx, c, watchSkipVideo, os.Stdout)
		if err != nil {
			return err
		}
		defer release()
		_, err = RunRenderWithDependencies(ctx, c, watchSkipVideo, adapters, logger, os.Stdout)
		return err
	}

	return RunWatchWithDependencies(ctx, cfgFile, cfg, render, logger, os.Stdout)
}

// RunWatchWithDependencies renders once and then on every change until ctx is done (for testing)
func RunWatchWithDependencies(
	ctx context.Context,
	configPath string,
	cfg *config.Config,
	render RenderFunc,
	logger *zap.Logger,
	output io.Writer,
) error {
	if err := render(ctx, cfg); err != nil {
		logger.Error("render failed", zap.Error(err))
	}

	var dataFiles []string
	for _, p := range []string{cfg.Data.Confirmed, cfg.Data.Deaths, cfg.Data.Recovered} {
		if p != "" {
			dataFiles = append(dataFiles, p)
		}
	}

	fmt.Fprintf(output, "\nWatching %s and %d data files (Ctrl+C to stop)\n", configPath, len(dataFiles))

	return config.Watch(ctx, configPath, cfg, logger, func(c *config.Config) {
		fmt.Fprintf(output, "\nChange detected, rendering again...\n\n")
		if err := render(ctx, c); err != nil {
			logger.Error("render failed", zap.Error(err))
		}
	}, dataFiles...)
}
