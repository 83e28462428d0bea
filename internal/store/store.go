package store

import (
	"context"

	"github.com/Kavirubc/findora/pkg/models"
)

// Gateway is the narrow persistence contract the matching core depends on.
// Implementations must guarantee that InsertMatch never produces two rows for
// the same (lost, found) item pair, even under concurrent callers.
type Gateway interface {
	// UnprocessedItems returns up to limit active items missing either
	// feature vector, oldest first.
	UnprocessedItems(ctx context.Context, limit int) ([]*models.Item, error)

	// CandidatePool returns up to limit items of the given type and status,
	// newest first. Feature-complete filtering is the caller's job.
	CandidatePool(ctx context.Context, itemType models.ItemType, status string, limit int) ([]*models.Item, error)

	// WriteFeatures stores both extracted vectors for an item.
	WriteFeatures(ctx context.Context, itemID string, imageFeatures, textEmbedding []float32) error

	// MatchExists reports whether a match row exists for the pair.
	MatchExists(ctx context.Context, lostItemID, foundItemID string) (bool, error)

	// InsertMatch stores a match unless the pair already has one.
	// Returns false with a nil error when the insert was a dedup no-op.
	InsertMatch(ctx context.Context, match *models.Match) (bool, error)

	// Item fetches a single item; returns (nil, nil) when absent.
	Item(ctx context.Context, itemID string) (*models.Item, error)
}
