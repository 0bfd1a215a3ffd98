//go:build framecheck

package framecheck

import (
	"context"
	"fmt"

	"reelgen/domain/media"

	"gocv.io/x/gocv"
)

// Checker implements media.FrameChecker using GoCV frame decoding
type Checker struct{}

// NewChecker creates a decode checker backed by OpenCV
func NewChecker() *Checker {
	return &Checker{}
}

// CheckDecodable opens the clip and decodes its first frame
func (c *Checker) CheckDecodable(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for decoding: %w", path, err)
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := capture.Read(&frame); !ok || frame.Empty() {
		return fmt.Errorf("no decodable frames in %s", path)
	}

	return nil
}

// Ensure Checker implements media.FrameChecker
var _ media.FrameChecker = (*Checker)(nil)
