package agent

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/Kavirubc/findora/internal/engine"
	"github.com/Kavirubc/findora/pkg/models"
)

// fakeGateway is an in-memory store.Gateway
type fakeGateway struct {
	items   map[string]*models.Item
	matches map[string]*models.Match // keyed by lost|found
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		items:   make(map[string]*models.Item),
		matches: make(map[string]*models.Match),
	}
}

func pairKey(lostID, foundID string) string {
	return lostID + "|" + foundID
}

func (g *fakeGateway) add(item *models.Item) {
	g.items[item.ItemID] = item
}

func (g *fakeGateway) UnprocessedItems(ctx context.Context, limit int) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range g.items {
		if item.Status == models.ItemStatusActive && !item.FeatureComplete() {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *fakeGateway) CandidatePool(ctx context.Context, itemType models.ItemType, status string, limit int) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range g.items {
		if item.ItemType == itemType && item.Status == status {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *fakeGateway) WriteFeatures(ctx context.Context, itemID string, imageFeatures, textEmbedding []float32) error {
	item, ok := g.items[itemID]
	if !ok {
		return fmt.Errorf("item %s not found", itemID)
	}
	item.ImageFeatures = imageFeatures
	item.TextEmbedding = textEmbedding
	return nil
}

func (g *fakeGateway) MatchExists(ctx context.Context, lostItemID, foundItemID string) (bool, error) {
	_, ok := g.matches[pairKey(lostItemID, foundItemID)]
	return ok, nil
}

func (g *fakeGateway) InsertMatch(ctx context.Context, match *models.Match) (bool, error) {
	key := pairKey(match.LostItemID, match.FoundItemID)
	if _, ok := g.matches[key]; ok {
		return false, nil
	}
	g.matches[key] = match
	return true, nil
}

func (g *fakeGateway) Item(ctx context.Context, itemID string) (*models.Item, error) {
	return g.items[itemID], nil
}

// stubExtractor returns fixed vectors per modality
type stubExtractor struct {
	imageVec []float32
	textVec  []float32
}

func (s *stubExtractor) ExtractImageFeatures(ctx context.Context, path string) []float32 {
	return s.imageVec
}

func (s *stubExtractor) ExtractTextEmbedding(ctx context.Context, text string) []float32 {
	return s.textVec
}

// recordingNotifier captures sink calls
type recordingNotifier struct {
	calls []float64
	err   error
}

func (n *recordingNotifier) Notify(ctx context.Context, lost, found *models.Item, confidence float64) error {
	n.calls = append(n.calls, confidence)
	return n.err
}

func activeItem(id string, itemType models.ItemType, category string, createdAt time.Time) *models.Item {
	return &models.Item{
		ItemID:      id,
		Title:       "Item " + id,
		Description: "Description for " + id,
		Category:    category,
		ItemType:    itemType,
		ContactInfo: id + "@example.com",
		ImagePath:   "storage/images/" + id + ".jpg",
		Status:      models.ItemStatusActive,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func newTestAgent(g *fakeGateway, ex FeatureExtractor, n *recordingNotifier, notifyThreshold float64) *Agent {
	return New(g, ex, engine.New(), n, Options{
		MatchThreshold:        0.6,
		NotificationThreshold: notifyThreshold,
		ObserveBatchSize:      50,
		CandidatePoolSize:     100,
		TopK:                  5,
	})
}

func TestCycleExtractsMatchesAndNotifies(t *testing.T) {
	g := newFakeGateway()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Feature-complete found item already in the pool
	found := activeItem("found-1", models.ItemTypeFound, "wallet", base)
	found.ImageFeatures = []float32{1, 0, 0}
	found.TextEmbedding = []float32{1, 0, 0}
	g.add(found)

	// Fresh lost item needing extraction; stub yields identical vectors so
	// the pair scores at the 0.95 ceiling
	lost := activeItem("lost-1", models.ItemTypeLost, "wallet", base)
	g.add(lost)

	notifier := &recordingNotifier{}
	a := newTestAgent(g, &stubExtractor{
		imageVec: []float32{1, 0, 0},
		textVec:  []float32{1, 0, 0},
	}, notifier, 0.8)

	a.RunCycle(context.Background())

	if !g.items["lost-1"].FeatureComplete() {
		t.Error("lost item features not written")
	}

	match, ok := g.matches[pairKey("lost-1", "found-1")]
	if !ok {
		t.Fatal("match not persisted as (lost, found)")
	}
	if match.ConfidenceScore != 0.95 {
		t.Errorf("ConfidenceScore = %v, want 0.95", match.ConfidenceScore)
	}
	if match.Status != models.MatchStatusPending {
		t.Errorf("Status = %q, want pending", match.Status)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(notifier.calls))
	}
}

func TestPairOrientedLostFirst(t *testing.T) {
	g := newFakeGateway()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// The query item is the FOUND one; the stored pair must still be
	// (lost, found)
	lost := activeItem("lost-1", models.ItemTypeLost, "wallet", base)
	lost.ImageFeatures = []float32{1, 0, 0}
	lost.TextEmbedding = []float32{1, 0, 0}
	g.add(lost)

	found := activeItem("found-1", models.ItemTypeFound, "wallet", base)
	g.add(found)

	a := newTestAgent(g, &stubExtractor{
		imageVec: []float32{1, 0, 0},
		textVec:  []float32{1, 0, 0},
	}, &recordingNotifier{}, 0.8)

	a.RunCycle(context.Background())

	if _, ok := g.matches[pairKey("lost-1", "found-1")]; !ok {
		t.Error("match not stored lost-first")
	}
	if _, ok := g.matches[pairKey("found-1", "lost-1")]; ok {
		t.Error("match stored with inverted pair")
	}
}

func TestNotificationGate(t *testing.T) {
	// Orthogonal image vectors, identical text, same category and day, no
	// coordinates: confidence lands at ~0.825
	run := func(threshold float64) *recordingNotifier {
		g := newFakeGateway()
		base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		found := activeItem("found-1", models.ItemTypeFound, "wallet", base)
		found.ImageFeatures = []float32{0, 1, 0}
		found.TextEmbedding = []float32{1, 0, 0}
		g.add(found)
		g.add(activeItem("lost-1", models.ItemTypeLost, "wallet", base))

		notifier := &recordingNotifier{}
		a := newTestAgent(g, &stubExtractor{
			imageVec: []float32{1, 0, 0},
			textVec:  []float32{1, 0, 0},
		}, notifier, threshold)

		a.RunCycle(context.Background())

		if len(g.matches) != 1 {
			t.Fatalf("matches = %d, want 1", len(g.matches))
		}
		return notifier
	}

	// Gate above the confidence: match persisted, notification suppressed
	if n := run(0.9); len(n.calls) != 0 {
		t.Errorf("notifier calls = %d, want 0 below gate", len(n.calls))
	}

	// Gate below the confidence: exactly one sink call
	if n := run(0.8); len(n.calls) != 1 {
		t.Errorf("notifier calls = %d, want 1 above gate", len(n.calls))
	}
}

func TestDuplicatePairNotReinserted(t *testing.T) {
	g := newFakeGateway()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	found := activeItem("found-1", models.ItemTypeFound, "wallet", base)
	found.ImageFeatures = []float32{1, 0, 0}
	found.TextEmbedding = []float32{1, 0, 0}
	g.add(found)
	g.add(activeItem("lost-1", models.ItemTypeLost, "wallet", base))

	existing := models.NewMatch("lost-1", "found-1")
	existing.ConfidenceScore = 0.9
	g.matches[pairKey("lost-1", "found-1")] = existing

	notifier := &recordingNotifier{}
	a := newTestAgent(g, &stubExtractor{
		imageVec: []float32{1, 0, 0},
		textVec:  []float32{1, 0, 0},
	}, notifier, 0.8)

	a.RunCycle(context.Background())

	if got := g.matches[pairKey("lost-1", "found-1")]; got != existing {
		t.Error("existing match row replaced")
	}
	if len(notifier.calls) != 0 {
		t.Errorf("notifier calls = %d, want 0 for dedup no-op", len(notifier.calls))
	}
}

func TestPartialExtractionSkipsItem(t *testing.T) {
	g := newFakeGateway()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	found := activeItem("found-1", models.ItemTypeFound, "wallet", base)
	found.ImageFeatures = []float32{1, 0, 0}
	found.TextEmbedding = []float32{1, 0, 0}
	g.add(found)
	g.add(activeItem("lost-1", models.ItemTypeLost, "wallet", base))

	notifier := &recordingNotifier{}
	// Image modality fails: nothing may be persisted
	a := newTestAgent(g, &stubExtractor{
		imageVec: nil,
		textVec:  []float32{1, 0, 0},
	}, notifier, 0.8)

	a.RunCycle(context.Background())

	if g.items["lost-1"].FeatureComplete() {
		t.Error("partial extraction must not write features")
	}
	if len(g.items["lost-1"].TextEmbedding) != 0 {
		t.Error("text vector written despite image failure")
	}
	if len(g.matches) != 0 {
		t.Errorf("matches = %d, want 0", len(g.matches))
	}

	// The item stays unprocessed and is retried next cycle
	items, err := g.UnprocessedItems(context.Background(), 10)
	if err != nil {
		t.Fatalf("UnprocessedItems() error = %v", err)
	}
	if len(items) != 1 || items[0].ItemID != "lost-1" {
		t.Errorf("unprocessed = %v, want [lost-1]", items)
	}
}

func TestOneItemFailureDoesNotBlockOthers(t *testing.T) {
	g := newFakeGateway()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	found := activeItem("found-1", models.ItemTypeFound, "wallet", base)
	found.ImageFeatures = []float32{1, 0, 0}
	found.TextEmbedding = []float32{1, 0, 0}
	g.add(found)

	// "bad" has no image path and sorts first; "good" should still process
	bad := activeItem("a-bad", models.ItemTypeLost, "wallet", base)
	bad.ImagePath = ""
	g.add(bad)
	good := activeItem("b-good", models.ItemTypeLost, "wallet", base.Add(time.Minute))
	g.add(good)

	ex := &pathSensitiveExtractor{
		imageVec: []float32{1, 0, 0},
		textVec:  []float32{1, 0, 0},
	}
	notifier := &recordingNotifier{}
	a := newTestAgent(g, ex, notifier, 0.8)

	a.RunCycle(context.Background())

	if g.items["a-bad"].FeatureComplete() {
		t.Error("bad item unexpectedly extracted")
	}
	if !g.items["b-good"].FeatureComplete() {
		t.Error("good item not processed after bad item failed")
	}
	if _, ok := g.matches[pairKey("b-good", "found-1")]; !ok {
		t.Error("good item's match not persisted")
	}
}

func TestNotifierFailureDoesNotAbortCycle(t *testing.T) {
	g := newFakeGateway()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	found := activeItem("found-1", models.ItemTypeFound, "wallet", base)
	found.ImageFeatures = []float32{1, 0, 0}
	found.TextEmbedding = []float32{1, 0, 0}
	g.add(found)
	g.add(activeItem("lost-1", models.ItemTypeLost, "wallet", base))

	notifier := &recordingNotifier{err: fmt.Errorf("smtp down")}
	a := newTestAgent(g, &stubExtractor{
		imageVec: []float32{1, 0, 0},
		textVec:  []float32{1, 0, 0},
	}, notifier, 0.8)

	a.RunCycle(context.Background())

	// Match stays persisted even though the sink failed
	if len(g.matches) != 1 {
		t.Errorf("matches = %d, want 1", len(g.matches))
	}
	if len(notifier.calls) != 1 {
		t.Errorf("notifier calls = %d, want 1", len(notifier.calls))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g := newFakeGateway()
	a := newTestAgent(g, &stubExtractor{}, &recordingNotifier{}, 0.8)
	a.opts.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

// pathSensitiveExtractor fails the image modality for items without a path
type pathSensitiveExtractor struct {
	imageVec []float32
	textVec  []float32
}

func (e *pathSensitiveExtractor) ExtractImageFeatures(ctx context.Context, path string) []float32 {
	if path == "" {
		return nil
	}
	return e.imageVec
}

func (e *pathSensitiveExtractor) ExtractTextEmbedding(ctx context.Context, text string) []float32 {
	return e.textVec
}
