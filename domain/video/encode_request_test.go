package video

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewEncodeRequest(t *testing.T) {
	frames := []string{"/tmp/day5.png", "/tmp/day6.png"}

	tests := []struct {
		name        string
		frames      []string
		fps         int
		output      string
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid request",
			frames: frames,
			fps:    4,
			output: "covid19_spread.mp4",
		},
		{
			name:   "uppercase extension",
			frames: frames,
			fps:    4,
			output: "/videos/OUT.MP4",
		},
		{
			name:        "no frames",
			frames:      nil,
			fps:         4,
			output:      "out.mp4",
			wantErr:     true,
			errContains: "no frames",
		},
		{
			name:        "zero fps",
			frames:      frames,
			fps:         0,
			output:      "out.mp4",
			wantErr:     true,
			errContains: "fps must be positive",
		},
		{
			name:        "missing output",
			frames:      frames,
			fps:         4,
			output:      "",
			wantErr:     true,
			errContains: "output path is required",
		},
		{
			name:        "wrong extension",
			frames:      frames,
			fps:         4,
			output:      "out.gif",
			wantErr:     true,
			errContains: ".mp4 extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEncodeRequest(tt.frames, tt.fps, tt.output)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewEncodeRequest() expected error, got nil")
					return
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewEncodeRequest() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewEncodeRequest() unexpected error: %v", err)
			}
			if len(got.Frames) != len(tt.frames) {
				t.Errorf("Frames = %v, want %v", got.Frames, tt.frames)
			}
		})
	}
}

func TestNewEncodeRequest_NoFramesIsSentinel(t *testing.T) {
	_, err := NewEncodeRequest(nil, 4, "out.mp4")
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("error = %v, want ErrNoFrames", err)
	}
}

func TestEncodeRequest_Timing(t *testing.T) {
	req := &EncodeRequest{Frames: make([]string, 10), FPS: 4, OutputPath: "out.mp4"}

	if got := req.FrameDuration(); got != 250*time.Millisecond {
		t.Errorf("FrameDuration() = %v, want 250ms", got)
	}
	if got := req.Length().String(); got != "00:00:03" {
		t.Errorf("Length() = %s, want 00:00:03", got)
	}
}
