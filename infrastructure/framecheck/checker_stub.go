//go:build !framecheck

package framecheck

import (
	"context"

	"reelgen/domain/media"
)

// Checker is a stub when GoCV/OpenCV is not available
type Checker struct{}

// NewChecker creates a no-op decode checker (build with '-tags=framecheck'
// and install OpenCV/GoCV to decode-verify extracted clips)
func NewChecker() *Checker {
	return &Checker{}
}

// CheckDecodable always passes in stub mode
func (c *Checker) CheckDecodable(ctx context.Context, path string) error {
	return nil
}

// Ensure Checker implements media.FrameChecker
var _ media.FrameChecker = (*Checker)(nil)
