package media

import "context"

// Cutter defines the interface for lossless sub-range extraction.
// Implementations must copy the source streams without re-encoding.
type Cutter interface {
	Cut(ctx context.Context, sourcePath string, offset, duration float64, outputPath string) error
	VerifyInstalled(ctx context.Context) error
}
