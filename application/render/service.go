package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sync"

	"covid-spread/domain/chart"
	"covid-spread/domain/region"
	"covid-spread/domain/timeseries"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoThresholds is returned when no day falls inside the requested range
var ErrNoThresholds = errors.New("no days to render")

// ErrAnchorNotFound is returned when the anchor region is not among the loaded regions
var ErrAnchorNotFound = errors.New("anchor region not found")

// FrameBuilder lays out the frame of one day threshold
type FrameBuilder interface {
	Build(index int, maxDay timeseries.Day, regions []region.Region) chart.Frame
}

// Input contains the parameters of a render run
type Input struct {
	Regions      []region.Region
	AnchorRegion string
	MinDay       timeseries.Day
	MaxDay       timeseries.Day // 0 = every available day
	FramesDir    string
	Workers      int // 0 = one per CPU
}

// Result lists the rendered frames in threshold order
type Result struct {
	Days   []timeseries.Day
	Frames []string
}

// Service renders frame images
type Service struct {
	builder  FrameBuilder
	renderer chart.Renderer
	output   io.Writer
	logger   *zap.Logger
}

// NewService creates a new render service
func NewService(builder FrameBuilder, renderer chart.Renderer, output io.Writer, logger *zap.Logger) *Service {
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		builder:  builder,
		renderer: renderer,
		output:   output,
		logger:   logger,
	}
}

// Thresholds returns the anchor region's days within [min, max]
func Thresholds(regions []region.Region, anchor string, min, max timeseries.Day) ([]timeseries.Day, error) {
	a, ok := region.Find(regions, anchor)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAnchorNotFound, anchor)
	}

	days := a.Confirmed.DaysFrom(min, max)
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: %s has no data from day %d", ErrNoThresholds, a.Name, min)
	}
	return days, nil
}

// Frames renders one frame per threshold. Rendering runs on a bounded
// worker pool; the first error cancels the remaining frames.
func (s *Service) Frames(ctx context.Context, input Input) (*Result, error) {
	days, err := Thresholds(input.Regions, input.AnchorRegion, input.MinDay, input.MaxDay)
	if err != nil {
		return nil, err
	}

	workers := input.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paths := make([]string, len(days))
	for i, day := range days {
		paths[i] = filepath.Join(input.FramesDir, chart.FrameName(day))
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			frame := s.builder.Build(i, day, input.Regions)
			if err := s.renderer.Render(gctx, frame, paths[i]); err != nil {
				return fmt.Errorf("frame for day %d: %w", day, err)
			}

			mu.Lock()
			fmt.Fprintf(s.output, "      Saving %s\n", paths[i])
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("frames rendered",
		zap.Int("frames", len(paths)),
		zap.Int("first_day", int(days[0])),
		zap.Int("last_day", int(days[len(days)-1])),
		zap.Int("workers", workers))

	return &Result{Days: days, Frames: paths}, nil
}
