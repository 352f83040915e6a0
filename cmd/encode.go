package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	appvideo "covid-spread/application/video"
	"covid-spread/domain/video"
	"covid-spread/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	encodeFramesDir string
	encodeOutput    string
	encodeFPS       int
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode an existing frames directory into an MP4 video",
	Long: `Encode the day*.png frames of a directory, in day order, into an MP4 video.

Defaults come from render.frames_dir, video.output and video.fps.

Example:
  covid-spread encode
  covid-spread encode --frames frames --output spread.mp4 --fps 8`,
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVar(&encodeFramesDir, "frames", "", "Directory containing the frames (defaults to render.frames_dir)")
	encodeCmd.Flags().StringVar(&encodeOutput, "output", "", "Output .mp4 path (defaults to video.output)")
	encodeCmd.Flags().IntVar(&encodeFPS, "fps", 0, "Frames per second (defaults to video.fps)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	framesDir := valueOr(encodeFramesDir, cfg.Render.FramesDir)
	output := valueOr(encodeOutput, cfg.Video.Output)
	fps := encodeFPS
	if fps == 0 {
		fps = cfg.Video.FPS
	}

	encoder, err := newEncoder(cfg)
	if err != nil {
		return err
	}

	return RunEncodeWithDependencies(cmd.Context(), encoder, filesystem.NewChecker(), framesDir, output, fps, os.Stdout)
}

// RunEncodeWithDependencies runs the encode command with injected dependencies (for testing)
func RunEncodeWithDependencies(
	ctx context.Context,
	encoder video.Encoder,
	fileChecker video.FileChecker,
	framesDir string,
	outputPath string,
	fps int,
	output io.Writer,
) error {
	if err := verifyEncoder(ctx, encoder); err != nil {
		return err
	}

	frames, err := appvideo.ListFrames(framesDir)
	if err != nil {
		return err
	}

	service := appvideo.NewEncodeService(encoder, fileChecker)

	fmt.Fprintf(output, "Encoding %d frames at %d fps...\n", len(frames), fps)

	result, err := service.Encode(ctx, appvideo.EncodeInput{
		Frames:     frames,
		FPS:        fps,
		OutputPath: outputPath,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s (%s)\n", result.OutputPath, result.Length)
	return nil
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
