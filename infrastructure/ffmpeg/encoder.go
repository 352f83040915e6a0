package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"covid-spread/domain/video"
)

// Encoder implements video.Encoder using the ffmpeg concat demuxer
type Encoder struct {
	ffmpegPath string
	runner     CommandRunner
	codec      string
}

// EncoderOption is a functional option for configuring Encoder
type EncoderOption func(*Encoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) EncoderOption {
	return func(e *Encoder) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) EncoderOption {
	return func(e *Encoder) {
		e.runner = runner
	}
}

// WithCodec sets the video codec passed to -c:v
func WithCodec(codec string) EncoderOption {
	return func(e *Encoder) {
		e.codec = codec
	}
}

// NewEncoder creates a new FFmpeg-based encoder
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		codec:      "libx264",
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Encode implements video.Encoder
func (e *Encoder) Encode(ctx context.Context, req *video.EncodeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(req.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	list, err := os.CreateTemp("", "covid-spread-frames-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create frame list: %w", err)
	}
	defer os.Remove(list.Name())

	if _, err := list.WriteString(ConcatList(req)); err != nil {
		list.Close()
		return fmt.Errorf("failed to write frame list: %w", err)
	}
	if err := list.Close(); err != nil {
		return fmt.Errorf("failed to write frame list: %w", err)
	}

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", list.Name(),
		"-r", strconv.Itoa(req.FPS),
		"-c:v", e.codec,
		"-pix_fmt", "yuv420p",
		// libx264 needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-y", // Overwrite output file if it exists
		req.OutputPath,
	}

	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg encode failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *Encoder) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// ConcatList renders the concat demuxer script for the request frames.
// The last frame is listed twice so its duration is honoured.
func ConcatList(req *video.EncodeRequest) string {
	duration := strconv.FormatFloat(req.FrameDuration().Seconds(), 'f', -1, 64)

	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, frame := range req.Frames {
		fmt.Fprintf(&b, "file %s\nduration %s\n", quote(frame), duration)
	}
	fmt.Fprintf(&b, "file %s\n", quote(req.Frames[len(req.Frames)-1]))
	return b.String()
}

func quote(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

// Ensure Encoder implements video.Encoder
var _ video.Encoder = (*Encoder)(nil)
