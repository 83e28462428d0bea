// Package feature wraps the black-box encoders with the defensive policies
// the matching pipeline relies on: unsupported containers are rejected up
// front, and every failure degrades to an absent vector instead of an error.
package feature

import (
	"context"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/Kavirubc/findora/internal/encoder"
)

// Vision encoder input geometry (MobileNet family)
const (
	inputWidth  = 224
	inputHeight = 224
)

// Extractor turns item images and text into feature vectors. Neither method
// returns an error: an absent (nil) vector means "skip this modality" and the
// caller must treat it that way, never as fatal.
type Extractor struct {
	vision encoder.VisionEncoder
	text   encoder.TextEncoder
	logger *slog.Logger
}

// NewExtractor creates an extractor over the given encoders
func NewExtractor(vision encoder.VisionEncoder, text encoder.TextEncoder) *Extractor {
	return &Extractor{
		vision: vision,
		text:   text,
		logger: slog.Default(),
	}
}

// ExtractImageFeatures decodes, resizes and normalizes the image at path and
// runs it through the vision encoder. Returns nil for a missing file, an
// excluded container format, or any decode/inference failure.
func (e *Extractor) ExtractImageFeatures(ctx context.Context, path string) []float32 {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		e.logger.Warn("image not found", "path", path)
		return nil
	}

	// AVIF decode support is unreliable; skip the vision modality entirely
	// rather than risk a bad vector. This is a policy exclusion, not a
	// transient failure.
	if strings.EqualFold(filepath.Ext(path), ".avif") {
		e.logger.Warn("avif image excluded from feature extraction", "path", path)
		return nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		e.logger.Warn("image decode failed", "path", path, "error", err)
		return nil
	}

	resized := imaging.Resize(img, inputWidth, inputHeight, imaging.Lanczos)

	features, err := e.vision.EncodeImage(ctx, pixelValues(resized))
	if err != nil {
		e.logger.Warn("vision encoding failed", "path", path, "error", err)
		return nil
	}

	return features
}

// ExtractTextEmbedding embeds the given text, lowercased with collapsed
// whitespace, and L2-normalizes the result. Returns nil for empty input or
// any encoder failure.
func (e *Extractor) ExtractTextEmbedding(ctx context.Context, text string) []float32 {
	normalized := encoder.NormalizeText(text)
	if normalized == "" {
		return nil
	}

	embedding, err := e.text.Embed(ctx, normalized)
	if err != nil {
		e.logger.Warn("text embedding failed", "error", err)
		return nil
	}

	return l2Normalize(embedding)
}

// pixelValues flattens the image into RGB channel values scaled to [-1, 1],
// the preprocessing the vision encoder expects
func pixelValues(img *image.NRGBA) []float32 {
	bounds := img.Bounds()
	pixels := make([]float32, 0, bounds.Dx()*bounds.Dy()*3)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			pixels = append(pixels,
				float32(c.R)/127.5-1,
				float32(c.G)/127.5-1,
				float32(c.B)/127.5-1)
		}
	}

	return pixels
}

// l2Normalize scales the vector to unit length. A zero vector is returned
// unchanged.
func l2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
