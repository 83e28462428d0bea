package engine

import (
	"math"

	"github.com/Kavirubc/findora/pkg/models"
)

// Composite confidence weights
const (
	weightImage    = 0.40
	weightText     = 0.35
	weightLocation = 0.15
	weightTemporal = 0.10

	// Category agreement nudges the weighted sum additively
	categoryBoost   = 0.10
	categoryPenalty = -0.05

	// Confidence is capped below 1.0: the models are never certain
	confidenceCeiling = 0.95

	// Location decay: zero score past maxDistanceKm, exp(-d/(max/3)) inside
	maxDistanceKm = 10.0

	// Temporal decay constant in days
	temporalDecayDays = 30.0

	earthRadiusKm = 6371.0

	// DefaultThreshold is the minimum confidence for a valid match
	DefaultThreshold = 0.6
)

// Neutral sub-scores used when a signal has no data to compare
const (
	neutralLocationScore = 0.5
	neutralTemporalScore = 0.7
)

// ScoreResult holds the sub-scores and composite confidence for one item pair.
// Score fields are rounded to 3 decimals for display stability; IsMatch is
// decided on the unrounded confidence.
type ScoreResult struct {
	ImageSimilarity float64 `json:"image_similarity"`
	TextSimilarity  float64 `json:"text_similarity"`
	LocationScore   float64 `json:"location_score"`
	TemporalScore   float64 `json:"temporal_score"`
	ConfidenceScore float64 `json:"confidence_score"`
	IsMatch         bool    `json:"is_match"`
}

// Engine computes match confidence between item pairs. Construct once and
// share by reference; it holds no mutable state.
type Engine struct{}

// New creates a scoring engine
func New() *Engine {
	return &Engine{}
}

// Score computes the composite confidence for a pair of items.
// Absent vectors contribute 0, missing coordinates score a neutral 0.5 and
// missing timestamps a neutral 0.7 — partial data is a valid input state,
// never an error.
func (e *Engine) Score(a, b *models.Item, threshold float64) ScoreResult {
	imageSim := 0.0
	if len(a.ImageFeatures) > 0 && len(b.ImageFeatures) > 0 {
		imageSim = cosineSimilarity(a.ImageFeatures, b.ImageFeatures)
	}

	textSim := 0.0
	if len(a.TextEmbedding) > 0 && len(b.TextEmbedding) > 0 {
		textSim = cosineSimilarity(a.TextEmbedding, b.TextEmbedding)
	}

	boost := categoryPenalty
	if a.Category == b.Category {
		boost = categoryBoost
	}

	locScore := locationScore(a, b)
	timeScore := temporalScore(a, b)

	confidence := imageSim*weightImage +
		textSim*weightText +
		locScore*weightLocation +
		timeScore*weightTemporal +
		boost

	confidence = math.Max(0.0, math.Min(confidence, confidenceCeiling))

	return ScoreResult{
		ImageSimilarity: round3(imageSim),
		TextSimilarity:  round3(textSim),
		LocationScore:   round3(locScore),
		TemporalScore:   round3(timeScore),
		ConfidenceScore: round3(confidence),
		IsMatch:         confidence >= threshold,
	}
}

// cosineSimilarity rescales cosine similarity from [-1,1] to [0,1].
// Identical vectors map to 1.0, opposite vectors to 0.0. Mismatched or
// zero-norm vectors contribute nothing rather than failing.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}

// locationScore scores proximity via haversine distance with exponential
// decay. Either side missing coordinates yields the neutral 0.5.
func locationScore(a, b *models.Item) float64 {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return neutralLocationScore
	}

	dist := haversineKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
	if dist > maxDistanceKm {
		return 0.0
	}
	return math.Exp(-dist / (maxDistanceKm / 3))
}

// haversineKm returns the great-circle distance between two coordinates
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// temporalScore decays with the gap between report timestamps: same day 1.0,
// 30-day gap ~0.37. A missing timestamp yields the neutral 0.7.
func temporalScore(a, b *models.Item) float64 {
	if a.CreatedAt.IsZero() || b.CreatedAt.IsZero() {
		return neutralTemporalScore
	}

	days := math.Abs(a.CreatedAt.Sub(b.CreatedAt).Hours()) / 24
	return math.Exp(-days / temporalDecayDays)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
