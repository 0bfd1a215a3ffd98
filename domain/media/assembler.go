package media

import "context"

// Assembler defines the interface for concatenating ordered clips into the
// final re-encoded output container.
type Assembler interface {
	Assemble(ctx context.Context, clipPaths []string, outputPath string) error
	VerifyInstalled(ctx context.Context) error
}
