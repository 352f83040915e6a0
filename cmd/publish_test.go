package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"covid-spread/domain/distribution"
)

func TestRunPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "covid19_spread.mp4")
	if err := os.WriteFile(path, make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}
	client := &mockDriveClient{existing: &distribution.FileInfo{ID: "old", Name: "covid19_spread.mp4", Size: 1024}}
	out := &bytes.Buffer{}

	if err := RunPublishWithDependencies(context.Background(), client, "folder", path, out); err != nil {
		t.Fatalf("RunPublishWithDependencies() unexpected error: %v", err)
	}

	if client.uploaded == nil || client.uploaded.FolderID != "folder" || client.uploaded.MimeType != distribution.MimeTypeMP4 {
		t.Errorf("upload request = %+v", client.uploaded)
	}
	if len(client.deleted) != 1 || client.deleted[0] != "old" {
		t.Errorf("deleted = %v, want [old]", client.deleted)
	}

	output := out.String()
	for _, want := range []string{"Uploading video: covid19_spread.mp4", "Replacing existing", "File ID: file123", "2.0 kB", distribution.ShareableURL("file123")} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}
}

func TestRunPublish_MissingFile(t *testing.T) {
	err := RunPublishWithDependencies(context.Background(), &mockDriveClient{}, "folder", filepath.Join(t.TempDir(), "none.mp4"), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "video upload failed") {
		t.Errorf("error = %v, want video upload failed", err)
	}
}
