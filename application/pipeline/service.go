package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"covid-spread/application/dataset"
	"covid-spread/application/render"
	appvideo "covid-spread/application/video"
	"covid-spread/domain/distribution"
	"covid-spread/domain/history"
	"covid-spread/domain/metrics"
	"covid-spread/domain/region"
	"covid-spread/domain/timeseries"
	"covid-spread/infrastructure/config"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Exporter writes the latest figures somewhere
type Exporter interface {
	Name() string
	Path() string
	Export(ctx context.Context, report metrics.Report) error
}

// Publisher uploads a finished video
type Publisher interface {
	UploadVideo(ctx context.Context, path string) (*distribution.UploadResult, error)
}

// FrameStore prepares and cleans up the frames directory
type FrameStore interface {
	PrepareDir(dir string) error
	RemoveFiles(paths []string) error
}

// Dependencies are the collaborators of the pipeline.
// Exporters, History and Publisher are optional.
type Dependencies struct {
	Dataset   *dataset.Service
	Render    *render.Service
	Encode    *appvideo.EncodeService
	Frames    FrameStore
	Exporters []Exporter
	History   history.Store
	Publisher Publisher
	Logger    *zap.Logger
}

// Input contains all input parameters of a render run
type Input struct {
	Sources       dataset.Sources
	Regions       []region.Spec
	AnchorRegion  string
	MinDay        timeseries.Day
	MaxDay        timeseries.Day
	FramesDir     string
	Workers       int
	FPS           int
	OutputPath    string
	SkipVideo     bool
	KeepFrames    bool
	Backend       string
	Normalization string
}

// Result contains the results of a successful run
type Result struct {
	Frames    []string
	Days      []timeseries.Day
	VideoPath string
	VideoURL  string
	RunID     string
	Summaries []metrics.Summary
}

// ValidationError contains details about a validation failure with suggestions
type ValidationError struct {
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\n\nTo fix this, run:\n  %s", e.Message, e.Suggestion)
	}
	return e.Message
}

// Service orchestrates the complete render workflow
type Service struct {
	deps   Dependencies
	output io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new pipeline service
func NewService(deps Dependencies, output io.Writer) *Service {
	if output == nil {
		output = io.Discard
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		deps:   deps,
		output: output,
		logger: logger,
		now:    time.Now,
	}
}

// Run loads the data, renders the frames, encodes and publishes the video,
// then records the run
func (s *Service) Run(ctx context.Context, input Input) (*Result, error) {
	startTime := s.now()
	result := &Result{}

	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	// Step 1: Load data
	fmt.Fprintf(s.output, "[1/5] Loading data...\n")
	ds, err := s.deps.Dataset.Load(ctx, input.Sources)
	if err != nil {
		s.showRecoveryCommands(1, input)
		return nil, fmt.Errorf("load failed: %w", err)
	}
	regions, err := ds.Regions(input.Regions)
	if err != nil {
		s.showRecoveryCommands(1, input)
		return nil, fmt.Errorf("load failed: %w", err)
	}
	for _, r := range regions {
		_, confirmed, _ := r.Confirmed.Last()
		fmt.Fprintf(s.output, "      %s: %s confirmed\n", r.Name, humanize.Comma(int64(confirmed)))
	}
	fmt.Fprintln(s.output)

	// Step 2: Render frames
	fmt.Fprintf(s.output, "[2/5] Rendering frames...\n")
	if err := s.deps.Frames.PrepareDir(input.FramesDir); err != nil {
		s.showRecoveryCommands(2, input)
		return nil, fmt.Errorf("render failed: %w", err)
	}
	rendered, err := s.deps.Render.Frames(ctx, render.Input{
		Regions:      regions,
		AnchorRegion: input.AnchorRegion,
		MinDay:       input.MinDay,
		MaxDay:       input.MaxDay,
		FramesDir:    input.FramesDir,
		Workers:      input.Workers,
	})
	if err != nil {
		s.showRecoveryCommands(2, input)
		return nil, fmt.Errorf("render failed: %w", err)
	}
	result.Frames = rendered.Frames
	result.Days = rendered.Days
	fmt.Fprintf(s.output, "      Rendered %d frames (days %d-%d)\n\n",
		len(rendered.Frames), rendered.Days[0], rendered.Days[len(rendered.Days)-1])

	// Step 3: Encode video
	fmt.Fprintf(s.output, "[3/5] Encoding video...\n")
	if input.SkipVideo {
		fmt.Fprintf(s.output, "      Skipped (--skip-video)\n\n")
	} else {
		encoded, err := s.deps.Encode.Encode(ctx, appvideo.EncodeInput{
			Frames:     rendered.Frames,
			FPS:        input.FPS,
			OutputPath: input.OutputPath,
		})
		if err != nil {
			s.showRecoveryCommands(3, input)
			return nil, fmt.Errorf("encode failed: %w", err)
		}
		result.VideoPath = encoded.OutputPath
		fmt.Fprintf(s.output, "      Created: %s (%d frames, %s)\n", encoded.OutputPath, encoded.Frames, encoded.Length)

		if !input.KeepFrames {
			if err := s.deps.Frames.RemoveFiles(rendered.Frames); err != nil {
				s.logger.Warn("failed to remove frames", zap.Error(err))
			} else {
				fmt.Fprintf(s.output, "      Removed %d frames\n", len(rendered.Frames))
			}
		}
		fmt.Fprintln(s.output)
	}

	// Step 4: Publish
	fmt.Fprintf(s.output, "[4/5] Publishing video...\n")
	switch {
	case s.deps.Publisher == nil:
		fmt.Fprintf(s.output, "      Skipped (no Drive folder configured)\n\n")
	case result.VideoPath == "":
		fmt.Fprintf(s.output, "      Skipped (no video)\n\n")
	default:
		uploaded, err := s.deps.Publisher.UploadVideo(ctx, result.VideoPath)
		if err != nil {
			s.showRecoveryCommands(4, input)
			return nil, fmt.Errorf("publish failed: %w", err)
		}
		result.VideoURL = uploaded.ShareableURL
		fmt.Fprintf(s.output, "      Video link: %s\n\n", uploaded.ShareableURL)
	}

	// Step 5: Export and record
	fmt.Fprintf(s.output, "[5/5] Exporting results...\n")
	report := metrics.NewReport(input.Sources.Reference, regions)
	result.Summaries = report.Summaries
	if err := s.export(ctx, report); err != nil {
		s.showRecoveryCommands(5, input)
		return nil, fmt.Errorf("export failed: %w", err)
	}
	if s.deps.History != nil {
		id, err := s.deps.History.Record(ctx, history.Run{
			StartedAt:     startTime,
			FinishedAt:    s.now(),
			Backend:       input.Backend,
			Normalization: input.Normalization,
			FirstDay:      rendered.Days[0],
			LastDay:       rendered.Days[len(rendered.Days)-1],
			Frames:        len(rendered.Frames),
			VideoPath:     result.VideoPath,
			VideoURL:      result.VideoURL,
			Summaries:     report.Summaries,
		})
		if err != nil {
			return nil, fmt.Errorf("export failed: %w", err)
		}
		result.RunID = id
		fmt.Fprintf(s.output, "      Recorded run %s\n", id)
	}
	if len(s.deps.Exporters) == 0 && s.deps.History == nil {
		fmt.Fprintf(s.output, "      Nothing to export\n")
	}
	fmt.Fprintln(s.output)

	elapsed := s.now().Sub(startTime)
	fmt.Fprintf(s.output, "Done! Completed in %s\n", formatDuration(elapsed))
	s.logger.Info("run completed",
		zap.Int("frames", len(result.Frames)),
		zap.String("video", result.VideoPath),
		zap.Duration("elapsed", elapsed))

	return result, nil
}

func (s *Service) validateInput(input Input) error {
	if len(input.Regions) == 0 {
		return &ValidationError{
			Message:    "no regions configured",
			Suggestion: config.SuggestAddRegionCommand("Italy"),
		}
	}
	for _, r := range input.Regions {
		if strings.EqualFold(r.Name, input.AnchorRegion) {
			return nil
		}
	}
	return &ValidationError{
		Message:    fmt.Sprintf("anchor region '%s' not found in config", input.AnchorRegion),
		Suggestion: config.SuggestAddRegionCommand(input.AnchorRegion),
	}
}

func (s *Service) export(ctx context.Context, report metrics.Report) error {
	var errs []error
	for _, e := range s.deps.Exporters {
		if err := e.Export(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		fmt.Fprintf(s.output, "      %s: %s\n", e.Name(), e.Path())
	}
	return errors.Join(errs...)
}

func (s *Service) showRecoveryCommands(failedStep int, input Input) {
	fmt.Fprintln(s.output)
	fmt.Fprintln(s.output, "To complete manually:")

	step := 1
	if failedStep <= 2 {
		fmt.Fprintf(s.output, "  %d. Render:     covid-spread render --skip-video\n", step)
		step++
	}
	if failedStep <= 3 && !input.SkipVideo {
		fmt.Fprintf(s.output, "  %d. Encode:     covid-spread encode --frames %q --output %q --fps %d\n", step, input.FramesDir, input.OutputPath, input.FPS)
		step++
	}
	if failedStep <= 4 && s.deps.Publisher != nil {
		fmt.Fprintf(s.output, "  %d. Publish:    covid-spread publish --video %q\n", step, input.OutputPath)
		step++
	}
	if failedStep <= 5 {
		fmt.Fprintf(s.output, "  %d. Summary:    covid-spread summary\n", step)
	}
	fmt.Fprintln(s.output)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// StepInfo provides information about a workflow step
type StepInfo struct {
	Number      int
	Description string
}

// GetSteps returns the list of workflow steps
func GetSteps() []StepInfo {
	return []StepInfo{
		{1, "Loading data"},
		{2, "Rendering frames"},
		{3, "Encoding video"},
		{4, "Publishing video"},
		{5, "Exporting results"},
	}
}
