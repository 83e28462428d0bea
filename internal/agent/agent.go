// Package agent runs the autonomous matching loop: poll for unprocessed
// items, extract features, rank candidates, persist matches idempotently and
// gate notifications. One cycle runs to completion before the next sleep;
// per-item failures are logged and skipped, never fatal.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kavirubc/findora/internal/engine"
	"github.com/Kavirubc/findora/internal/notify"
	"github.com/Kavirubc/findora/internal/store"
	"github.com/Kavirubc/findora/pkg/models"
)

// FeatureExtractor is the extraction capability the agent depends on.
// Absent vectors come back nil; the agent treats that as "retry next cycle".
type FeatureExtractor interface {
	ExtractImageFeatures(ctx context.Context, path string) []float32
	ExtractTextEmbedding(ctx context.Context, text string) []float32
}

// Options tune the agent loop
type Options struct {
	MatchThreshold        float64
	NotificationThreshold float64
	PollInterval          time.Duration
	ObserveBatchSize      int
	CandidatePoolSize     int
	TopK                  int
}

// Agent is the long-lived matching worker. Construct once and run a single
// loop; cycles never overlap.
type Agent struct {
	gateway   store.Gateway
	extractor FeatureExtractor
	engine    *engine.Engine
	notifier  notify.Notifier
	opts      Options
	logger    *slog.Logger
}

// New creates an agent over the given collaborators
func New(gateway store.Gateway, extractor FeatureExtractor, eng *engine.Engine, notifier notify.Notifier, opts Options) *Agent {
	if opts.MatchThreshold == 0 {
		opts.MatchThreshold = engine.DefaultThreshold
	}
	if opts.NotificationThreshold == 0 {
		opts.NotificationThreshold = 0.8
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	if opts.ObserveBatchSize <= 0 {
		opts.ObserveBatchSize = 50
	}
	if opts.CandidatePoolSize <= 0 {
		opts.CandidatePoolSize = 100
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}

	return &Agent{
		gateway:   gateway,
		extractor: extractor,
		engine:    eng,
		notifier:  notifier,
		opts:      opts,
		logger:    slog.Default(),
	}
}

// Run executes cycles until ctx is cancelled. Cancellation is honored
// between cycles and between items; in-flight item processing completes.
func (a *Agent) Run(ctx context.Context) {
	a.logger.Info("agent started",
		"match_threshold", a.opts.MatchThreshold,
		"notification_threshold", a.opts.NotificationThreshold,
		"poll_interval", a.opts.PollInterval)

	for {
		a.RunCycle(ctx)

		select {
		case <-ctx.Done():
			a.logger.Info("agent stopped")
			return
		case <-time.After(a.opts.PollInterval):
		}
	}
}

// RunCycle processes one batch of unprocessed items
func (a *Agent) RunCycle(ctx context.Context) {
	items, err := a.gateway.UnprocessedItems(ctx, a.opts.ObserveBatchSize)
	if err != nil {
		a.logger.Error("failed to observe new items", "error", err)
		return
	}
	if len(items) == 0 {
		return
	}

	a.logger.Info("processing items", "count", len(items))

	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		a.processItem(ctx, item)
	}
}

// processItem runs one item through extract, match, persist and notify.
// Errors are contained here so one bad item never blocks the rest.
func (a *Agent) processItem(ctx context.Context, item *models.Item) {
	logger := a.logger.With("item_id", item.ItemID, "title", item.Title)

	if !item.FeatureComplete() {
		if !a.extractFeatures(ctx, item, logger) {
			return
		}

		// Re-read so matching sees exactly what was persisted
		fresh, err := a.gateway.Item(ctx, item.ItemID)
		if err != nil || fresh == nil {
			logger.Error("failed to reload item after extraction", "error", err)
			return
		}
		item = fresh
	}

	matches := a.findMatches(ctx, item, logger)
	if len(matches) == 0 {
		return
	}

	logger.Info("matches found", "count", len(matches))

	for _, m := range matches {
		a.persistAndNotify(ctx, item, m, logger)
	}
}

// extractFeatures extracts both modalities and persists them only when both
// succeed. Partial extraction leaves the item unprocessed; it is picked up
// again next cycle. Items that can never extract are retried indefinitely —
// TODO: add a retry-count cutoff before running at larger scale.
func (a *Agent) extractFeatures(ctx context.Context, item *models.Item, logger *slog.Logger) bool {
	logger.Info("extracting features")

	imageFeatures := a.extractor.ExtractImageFeatures(ctx, item.ImagePath)
	textEmbedding := a.extractor.ExtractTextEmbedding(ctx, item.EmbeddingText())

	if len(imageFeatures) == 0 || len(textEmbedding) == 0 {
		logger.Warn("feature extraction incomplete",
			"image_ok", len(imageFeatures) > 0,
			"text_ok", len(textEmbedding) > 0)
		return false
	}

	if err := a.gateway.WriteFeatures(ctx, item.ItemID, imageFeatures, textEmbedding); err != nil {
		logger.Error("failed to write features", "error", err)
		return false
	}

	return true
}

// findMatches ranks the item against the opposite-type candidate pool
func (a *Agent) findMatches(ctx context.Context, item *models.Item, logger *slog.Logger) []engine.RankedMatch {
	pool, err := a.gateway.CandidatePool(ctx, item.OppositeType(), models.ItemStatusActive, a.opts.CandidatePoolSize)
	if err != nil {
		logger.Error("failed to fetch candidate pool", "error", err)
		return nil
	}

	candidates := make([]*models.Item, 0, len(pool))
	for _, c := range pool {
		if c.FeatureComplete() && c.ItemID != item.ItemID {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	logger.Info("comparing against candidates",
		"count", len(candidates), "type", item.OppositeType())

	return a.engine.Rank(item, candidates, a.opts.MatchThreshold, a.opts.TopK)
}

// persistAndNotify orients the pair lost-first, inserts idempotently and
// fires the notification gate
func (a *Agent) persistAndNotify(ctx context.Context, item *models.Item, rm engine.RankedMatch, logger *slog.Logger) {
	lost, found := item, rm.Item
	if item.ItemType == models.ItemTypeFound {
		lost, found = rm.Item, item
	}

	match := models.NewMatch(lost.ItemID, found.ItemID)
	match.ConfidenceScore = rm.Result.ConfidenceScore
	match.ImageSimilarity = rm.Result.ImageSimilarity
	match.TextSimilarity = rm.Result.TextSimilarity
	match.LocationScore = rm.Result.LocationScore

	inserted, err := a.gateway.InsertMatch(ctx, match)
	if err != nil {
		logger.Error("failed to store match", "error", err)
		return
	}
	if !inserted {
		// Pair already matched in an earlier cycle
		return
	}

	logger.Info("match stored",
		"match_id", match.MatchID,
		"lost_item_id", lost.ItemID,
		"found_item_id", found.ItemID,
		"confidence", match.ConfidenceScore)

	if match.ConfidenceScore < a.opts.NotificationThreshold {
		logger.Info("notification suppressed",
			"confidence", match.ConfidenceScore,
			"threshold", a.opts.NotificationThreshold)
		return
	}

	if err := a.notifier.Notify(ctx, lost, found, match.ConfidenceScore); err != nil {
		logger.Error("notification failed", "error", err)
	}
}
