package media

import "context"

// FrameChecker defines the interface for verifying a clip decodes to at
// least one frame. The default build ships a no-op implementation; the
// framecheck build tag enables real decoding.
type FrameChecker interface {
	CheckDecodable(ctx context.Context, path string) error
}
