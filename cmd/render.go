package cmd

import (
	"context"
	"io"
	"os"

	"covid-spread/application/dataset"
	"covid-spread/application/pipeline"
	"covid-spread/application/render"
	appvideo "covid-spread/application/video"
	"covid-spread/domain/chart"
	"covid-spread/domain/timeseries"
	"covid-spread/infrastructure/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderSkipVideo     bool
	renderKeepFrames    bool
	renderMaxDay        int
	renderBackend       string
	renderNormalization string
	renderWorkers       int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the chart frames and encode the video",
	Long: `Run the complete workflow:
1. Load the confirmed, deaths and (optional) recovered tables
2. Render one chart frame per day of the anchor region
3. Encode the frames into an MP4 video
4. Publish the video to Google Drive (when google.folder_id is set)
5. Export the latest figures (workbook, metrics textfile, run history)

Flags override the matching config values for this run only.

Example:
  covid-spread render
  covid-spread render --skip-video --max-day 60
  covid-spread render --normalization per_capita --backend gochart`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderSkipVideo, "skip-video", false, "Only render frames, do not encode or publish")
	renderCmd.Flags().BoolVar(&renderKeepFrames, "keep-frames", false, "Keep frame images after encoding")
	renderCmd.Flags().IntVar(&renderMaxDay, "max-day", 0, "Last day to render (overrides render.max_day)")
	renderCmd.Flags().StringVar(&renderBackend, "backend", "", "Chart backend: gonum or gochart (overrides render.backend)")
	renderCmd.Flags().StringVar(&renderNormalization, "normalization", "", "peak_share or per_capita (overrides render.normalization)")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0, "Parallel frame renderers (overrides render.workers)")
}

// RenderOptions are per-run overrides of the config
type RenderOptions struct {
	SkipVideo     bool
	KeepFrames    bool
	MaxDay        int
	Backend       string
	Normalization string
	Workers       int
}

// Apply returns a validated copy of cfg with the overrides set
func (o RenderOptions) Apply(cfg *config.Config) (*config.Config, error) {
	out := *cfg
	out.Regions = append([]config.RegionConfig(nil), cfg.Regions...)
	if o.MaxDay > 0 {
		out.Render.MaxDay = o.MaxDay
	}
	if o.Backend != "" {
		out.Render.Backend = o.Backend
	}
	if o.Normalization != "" {
		out.Render.Normalization = o.Normalization
	}
	if o.Workers > 0 {
		out.Render.Workers = o.Workers
	}
	if o.KeepFrames {
		out.Video.KeepFrames = true
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	opts := RenderOptions{
		SkipVideo:     renderSkipVideo,
		KeepFrames:    renderKeepFrames,
		MaxDay:        renderMaxDay,
		Backend:       renderBackend,
		Normalization: renderNormalization,
		Workers:       renderWorkers,
	}
	runCfg, err := opts.Apply(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	adapters, release, err := newAdapters(ctx, runCfg, opts.SkipVideo, os.Stdout)
	if err != nil {
		return err
	}
	defer release()

	_, err = RunRenderWithDependencies(ctx, runCfg, opts.SkipVideo, adapters, logger, os.Stdout)
	return err
}

// RunRenderWithDependencies runs the render workflow with injected adapters (for testing)
func RunRenderWithDependencies(
	ctx context.Context,
	cfg *config.Config,
	skipVideo bool,
	adapters *Adapters,
	logger *zap.Logger,
	output io.Writer,
) (*pipeline.Result, error) {
	if !skipVideo {
		if err := verifyEncoder(ctx, adapters.Encoder); err != nil {
			return nil, err
		}
	}

	ref, err := cfg.ReferenceDate()
	if err != nil {
		return nil, err
	}
	normalizer, err := cfg.Normalizer()
	if err != nil {
		return nil, err
	}
	specs, err := cfg.RegionSpecs()
	if err != nil {
		return nil, err
	}

	builder := chart.NewBuilder(ref, normalizer)
	builder.Width = cfg.Render.Width
	builder.Height = cfg.Render.Height
	if cfg.Data.SourceURL != "" {
		builder.SourceURL = cfg.Data.SourceURL
	}

	service := pipeline.NewService(pipeline.Dependencies{
		Dataset:   dataset.NewService(adapters.Reader, adapters.Files, logger),
		Render:    render.NewService(builder, adapters.Renderer, output, logger),
		Encode:    appvideo.NewEncodeService(adapters.Encoder, adapters.Files),
		Frames:    adapters.Files,
		Exporters: adapters.Exporters,
		History:   adapters.History,
		Publisher: adapters.Publisher,
		Logger:    logger,
	}, output)

	input := pipeline.Input{
		Sources: dataset.Sources{
			Confirmed: cfg.Data.Confirmed,
			Deaths:    cfg.Data.Deaths,
			Recovered: cfg.Data.Recovered,
			Reference: ref,
		},
		Regions:       specs,
		AnchorRegion:  cfg.Render.AnchorRegion,
		MinDay:        timeseries.Day(cfg.Render.MinDay),
		MaxDay:        timeseries.Day(cfg.Render.MaxDay),
		FramesDir:     cfg.Render.FramesDir,
		Workers:       cfg.Render.Workers,
		FPS:           cfg.Video.FPS,
		OutputPath:    cfg.Video.Output,
		SkipVideo:     skipVideo,
		KeepFrames:    cfg.Video.KeepFrames,
		Backend:       cfg.Render.Backend,
		Normalization: string(normalizer.Mode),
	}

	return service.Run(ctx, input)
}
