package video

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFPS matches the original four frames per second animation
const DefaultFPS = 4

// ErrNoFrames is returned when there is nothing to encode
var ErrNoFrames = errors.New("no frames to encode")

// EncodeRequest represents a request to encode frames into an MP4
type EncodeRequest struct {
	Frames     []string
	FPS        int
	OutputPath string
}

// NewEncodeRequest creates a new EncodeRequest with validation
func NewEncodeRequest(frames []string, fps int, outputPath string) (*EncodeRequest, error) {
	req := &EncodeRequest{
		Frames:     frames,
		FPS:        fps,
		OutputPath: outputPath,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks that the encode request is valid
func (r *EncodeRequest) Validate() error {
	if len(r.Frames) == 0 {
		return ErrNoFrames
	}

	if r.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", r.FPS)
	}

	if r.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}

	if ext := strings.ToLower(filepath.Ext(r.OutputPath)); ext != ".mp4" {
		return fmt.Errorf("output %q must have .mp4 extension", r.OutputPath)
	}

	return nil
}

// FrameDuration returns how long each frame is shown
func (r *EncodeRequest) FrameDuration() time.Duration {
	return time.Second / time.Duration(r.FPS)
}

// Length returns the playing time of the video
func (r *EncodeRequest) Length() Timestamp {
	return TimestampFromDuration(time.Duration(len(r.Frames)) * r.FrameDuration())
}
