package encoder

import (
	"context"
	"strings"
)

// TextEncoder generates a fixed-length embedding for one piece of item text.
// Items embed one at a time as the agent processes them; there is no batch
// path.
type TextEncoder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// VisionEncoder generates fixed-length feature vectors from preprocessed
// image pixels (flattened HxWxC channel values)
type VisionEncoder interface {
	EncodeImage(ctx context.Context, pixels []float32) ([]float32, error)
	Close() error
}

// NormalizeText lowercases and collapses internal whitespace before
// embedding, so equivalent descriptions embed identically
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
