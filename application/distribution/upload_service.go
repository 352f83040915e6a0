package distribution

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"covid-spread/domain/distribution"

	"github.com/dustin/go-humanize"
)

// UploadService handles publishing rendered videos to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	folderID    string
	output      io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		driveClient: client,
		folderID:    folderID,
		output:      output,
	}
}

// UploadVideo uploads a video file to Google Drive and sets public sharing.
// A file with the same name in the folder is replaced.
func (s *UploadService) UploadVideo(ctx context.Context, videoPath string) (*distribution.UploadResult, error) {
	info, err := os.Stat(videoPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", videoPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", videoPath, err)
	}

	fileName := filepath.Base(videoPath)

	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}

	quota, err := s.driveClient.GetStorageQuota(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage quota: %w", err)
	}
	needed := info.Size()
	if existing != nil {
		needed -= existing.Size
	}
	if !quota.HasSpaceFor(needed) {
		return nil, fmt.Errorf("not enough Drive space for %s: need %s, %s available",
			fileName, humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(quota.AvailableBytes)))
	}

	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%s)\n", existing.Name, humanize.Bytes(uint64(existing.Size)))
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: videoPath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  distribution.MimeTypeMP4,
	}

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}

	return result, nil
}
