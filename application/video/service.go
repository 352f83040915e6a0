package video

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"covid-spread/domain/chart"
	"covid-spread/domain/video"
)

// EncodeResult contains the result of an encode operation
type EncodeResult struct {
	OutputPath string
	Frames     int
	Length     video.Timestamp
}

// EncodeService coordinates video encoding
type EncodeService struct {
	encoder     video.Encoder
	fileChecker video.FileChecker
}

// NewEncodeService creates a new EncodeService
func NewEncodeService(encoder video.Encoder, fileChecker video.FileChecker) *EncodeService {
	return &EncodeService{
		encoder:     encoder,
		fileChecker: fileChecker,
	}
}

// EncodeInput represents the input for an encode operation
type EncodeInput struct {
	Frames     []string
	FPS        int
	OutputPath string
}

// Encode encodes the frames, in the given order, into a video
func (s *EncodeService) Encode(ctx context.Context, input EncodeInput) (*EncodeResult, error) {
	req, err := video.NewEncodeRequest(input.Frames, input.FPS, input.OutputPath)
	if err != nil {
		return nil, err
	}

	for _, frame := range req.Frames {
		if !s.fileChecker.Exists(frame) {
			return nil, fmt.Errorf("frame does not exist: %s", frame)
		}
	}

	if err := s.encoder.Encode(ctx, req); err != nil {
		return nil, err
	}

	return &EncodeResult{
		OutputPath: req.OutputPath,
		Frames:     len(req.Frames),
		Length:     req.Length(),
	}, nil
}

// ListFrames returns the frame images in dir ordered by day
func ListFrames(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, chart.FramePattern))
	if err != nil {
		return nil, err
	}

	type frame struct {
		path string
		day  int
	}
	var frames []frame
	for _, p := range paths {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(p), "day"), ".png")
		day, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		frames = append(frames, frame{path: p, day: day})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].day < frames[j].day })

	result := make([]string, len(frames))
	for i, f := range frames {
		result[i] = f.path
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w in %s", video.ErrNoFrames, dir)
	}
	return result, nil
}
