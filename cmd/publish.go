package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appdist "covid-spread/application/distribution"
	"covid-spread/domain/distribution"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var publishVideoPath string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload a video to Google Drive with public sharing",
	Long: `Upload an encoded video to the configured Google Drive folder and make it
readable by anyone with the link. A file with the same name in the folder
is replaced.

Example:
  covid-spread publish
  covid-spread publish --video /path/to/covid19_spread.mp4`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&publishVideoPath, "video", "", "Path to video file (defaults to video.output)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if cfg.Google.FolderID == "" {
		return fmt.Errorf("google.folder_id is not set. Run 'covid-spread setup' or edit %s", cfgFile)
	}

	ctx := cmd.Context()
	client, err := newDriveClient(ctx, cfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunPublishWithDependencies(
		ctx,
		client,
		cfg.Google.FolderID,
		valueOr(publishVideoPath, cfg.Video.Output),
		os.Stdout,
	)
}

// RunPublishWithDependencies runs the publish command with injected dependencies (for testing)
func RunPublishWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	videoPath string,
	output io.Writer,
) error {
	service := appdist.NewUploadService(driveClient, folderID, output)

	fmt.Fprintf(output, "Uploading video: %s...\n", filepath.Base(videoPath))
	result, err := service.UploadVideo(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("video upload failed: %w", err)
	}
	fmt.Fprintf(output, "Video uploaded successfully!\n")
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Size: %s\n", humanize.Bytes(uint64(result.Size)))
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	return nil
}
