//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reelgen/cmd"
	"reelgen/domain/distribution"

	"github.com/cucumber/godog"
)

// mockDriveClient implements distribution.DriveClient for publish scenarios
type mockDriveClient struct {
	existing   *distribution.FileInfo
	uploaded   []distribution.UploadRequest
	deletedIDs []string
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	if m.existing != nil && m.existing.Name == name {
		return m.existing, nil
	}
	return nil, nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	m.uploaded = append(m.uploaded, req)
	info, err := os.Stat(req.LocalPath)
	if err != nil {
		return nil, err
	}
	return &distribution.UploadResult{
		FileID:       "drive-file-1",
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/drive-file-1/view",
		Size:         info.Size(),
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	m.deletedIDs = append(m.deletedIDs, fileID)
	return nil
}

// publishContext holds test state for publish scenarios
type publishContext struct {
	tempDir  string
	reelPath string
	folderID string
	client   *mockDriveClient
	output   *bytes.Buffer
	err      error
}

// SharedPublishContext is reset before each scenario via Before hook
var SharedPublishContext *publishContext

func getPublishContext() *publishContext {
	return SharedPublishContext
}

func InitializePublishScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "publish-test-*")
		if err != nil {
			return c, err
		}
		SharedPublishContext = &publishContext{
			tempDir:  tempDir,
			folderID: "folder-123",
			client:   &mockDriveClient{},
			output:   &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedPublishContext != nil && SharedPublishContext.tempDir != "" {
			os.RemoveAll(SharedPublishContext.tempDir)
		}
		SharedPublishContext = nil
		return c, nil
	})

	ctx.Step(`^a finished reel "([^"]*)"$`, aFinishedReel)
	ctx.Step(`^no reel exists at "([^"]*)"$`, noReelExistsAt)
	ctx.Step(`^Drive already has a file named "([^"]*)"$`, driveAlreadyHasAFileNamed)
	ctx.Step(`^I publish the reel$`, iPublishTheReel)
	ctx.Step(`^I attempt to publish the reel$`, iAttemptToPublishTheReel)
	ctx.Step(`^the reel should be uploaded to folder "([^"]*)"$`, theReelShouldBeUploadedToFolder)
	ctx.Step(`^the previous upload should be deleted$`, thePreviousUploadShouldBeDeleted)
	ctx.Step(`^no previous upload should be deleted$`, noPreviousUploadShouldBeDeleted)
	ctx.Step(`^the publish output should mention "([^"]*)"$`, thePublishOutputShouldMention)
	ctx.Step(`^I should receive a publish error containing "([^"]*)"$`, iShouldReceiveAPublishErrorContaining)
}

func aFinishedReel(name string) error {
	p := getPublishContext()
	p.reelPath = filepath.Join(p.tempDir, name)
	return os.WriteFile(p.reelPath, []byte("assembled reel"), 0644)
}

func noReelExistsAt(name string) error {
	p := getPublishContext()
	p.reelPath = filepath.Join(p.tempDir, name)
	return nil
}

func driveAlreadyHasAFileNamed(name string) error {
	p := getPublishContext()
	p.client.existing = &distribution.FileInfo{
		ID:   "old-upload-1",
		Name: name,
		Size: 5 * 1024 * 1024,
	}
	return nil
}

func iPublishTheReel() error {
	p := getPublishContext()
	p.err = cmd.RunPublishWithDependencies(context.Background(), p.client, p.folderID, p.reelPath, p.output)
	if p.err != nil {
		return fmt.Errorf("publish failed: %w", p.err)
	}
	return nil
}

func iAttemptToPublishTheReel() error {
	p := getPublishContext()
	p.err = cmd.RunPublishWithDependencies(context.Background(), p.client, p.folderID, p.reelPath, p.output)
	return nil
}

func theReelShouldBeUploadedToFolder(folderID string) error {
	p := getPublishContext()
	if len(p.client.uploaded) != 1 {
		return fmt.Errorf("expected 1 upload, got %d", len(p.client.uploaded))
	}
	req := p.client.uploaded[0]
	if req.FolderID != folderID {
		return fmt.Errorf("expected upload to folder %q, got %q", folderID, req.FolderID)
	}
	if req.FileName != filepath.Base(p.reelPath) {
		return fmt.Errorf("expected upload named %q, got %q", filepath.Base(p.reelPath), req.FileName)
	}
	return nil
}

func thePreviousUploadShouldBeDeleted() error {
	p := getPublishContext()
	if len(p.client.deletedIDs) != 1 || p.client.deletedIDs[0] != "old-upload-1" {
		return fmt.Errorf("expected deletion of old-upload-1, got %v", p.client.deletedIDs)
	}
	return nil
}

func noPreviousUploadShouldBeDeleted() error {
	p := getPublishContext()
	if len(p.client.deletedIDs) != 0 {
		return fmt.Errorf("expected no deletions, got %v", p.client.deletedIDs)
	}
	return nil
}

func thePublishOutputShouldMention(expected string) error {
	p := getPublishContext()
	if !strings.Contains(p.output.String(), expected) {
		return fmt.Errorf("output does not mention %q:\n%s", expected, p.output.String())
	}
	return nil
}

func iShouldReceiveAPublishErrorContaining(expected string) error {
	p := getPublishContext()
	if p.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(p.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, p.err)
	}
	return nil
}
