package distribution

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelgen/domain/distribution"
)

// mockDriveClient implements distribution.DriveClient for testing
type mockDriveClient struct {
	existing    *distribution.FileInfo
	findErr     error
	deletedIDs  []string
	deleteErr   error
	uploaded    []distribution.UploadRequest
	uploadErr   error
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.existing, nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploaded = append(m.uploaded, req)
	return &distribution.UploadResult{
		FileID:       "new-file-id",
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/new-file-id/view?usp=sharing",
		Size:         2048,
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, fileID)
	return nil
}

func writeReel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reel.mp4")
	if err := os.WriteFile(path, []byte("reel"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublishUploadsAndShares(t *testing.T) {
	client := &mockDriveClient{}
	svc := NewPublishService(client, "folder-9", &bytes.Buffer{})

	result, err := svc.Publish(context.Background(), writeReel(t))
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}

	if len(client.uploaded) != 1 {
		t.Fatalf("uploaded %d files, want 1", len(client.uploaded))
	}
	req := client.uploaded[0]
	if req.FileName != "reel.mp4" || req.FolderID != "folder-9" || req.MimeType != distribution.MimeTypeMP4 {
		t.Errorf("upload request = %+v", req)
	}
	if result.ShareableURL == "" {
		t.Error("result missing shareable URL")
	}
	if len(client.deletedIDs) != 0 {
		t.Errorf("deleted %v with nothing to replace", client.deletedIDs)
	}
}

func TestPublishReplacesExisting(t *testing.T) {
	client := &mockDriveClient{
		existing: &distribution.FileInfo{ID: "old-id", Name: "reel.mp4", Size: 5 * 1024 * 1024},
	}
	out := &bytes.Buffer{}
	svc := NewPublishService(client, "folder-9", out)

	if _, err := svc.Publish(context.Background(), writeReel(t)); err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}

	if len(client.deletedIDs) != 1 || client.deletedIDs[0] != "old-id" {
		t.Errorf("deleted %v, want [old-id]", client.deletedIDs)
	}
	if len(client.uploaded) != 1 {
		t.Errorf("uploaded %d files, want 1", len(client.uploaded))
	}
	if !strings.Contains(out.String(), "Replacing existing reel.mp4 (5.0 MB)") {
		t.Errorf("output missing replace notice: %s", out.String())
	}
}

func TestPublishMissingFile(t *testing.T) {
	svc := NewPublishService(&mockDriveClient{}, "folder-9", nil)

	_, err := svc.Publish(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("error = %v, want missing file", err)
	}
}

func TestPublishDeleteFailure(t *testing.T) {
	client := &mockDriveClient{
		existing:  &distribution.FileInfo{ID: "old-id", Name: "reel.mp4"},
		deleteErr: errors.New("permission denied"),
	}
	svc := NewPublishService(client, "folder-9", nil)

	_, err := svc.Publish(context.Background(), writeReel(t))
	if err == nil || !strings.Contains(err.Error(), "failed to delete existing file") {
		t.Fatalf("error = %v, want delete failure", err)
	}
	if len(client.uploaded) != 0 {
		t.Error("upload ran despite failed replacement")
	}
}

func TestPublishUploadFailure(t *testing.T) {
	client := &mockDriveClient{uploadErr: errors.New("quota exceeded")}
	svc := NewPublishService(client, "folder-9", nil)

	_, err := svc.Publish(context.Background(), writeReel(t))
	if err == nil || !strings.Contains(err.Error(), "failed to upload and share") {
		t.Fatalf("error = %v, want upload failure", err)
	}
}
