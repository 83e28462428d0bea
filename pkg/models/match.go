package models

import (
	"time"

	"github.com/google/uuid"
)

// Match statuses
const (
	MatchStatusPending  = "pending"
	MatchStatusAccepted = "accepted"
	MatchStatusRejected = "rejected"
)

// Match links one lost item to one found item with scoring detail.
// The (lost_item_id, found_item_id) pair is unique: at most one match
// row ever exists per item pair.
type Match struct {
	MatchID         string    `json:"match_id"`
	LostItemID      string    `json:"lost_item_id"`
	FoundItemID     string    `json:"found_item_id"`
	ConfidenceScore float64   `json:"confidence_score"`
	ImageSimilarity float64   `json:"image_similarity"`
	TextSimilarity  float64   `json:"text_similarity"`
	LocationScore   float64   `json:"location_score"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewMatch creates a pending match with a fresh ID
func NewMatch(lostItemID, foundItemID string) *Match {
	now := time.Now().UTC()
	return &Match{
		MatchID:     uuid.New().String(),
		LostItemID:  lostItemID,
		FoundItemID: foundItemID,
		Status:      MatchStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
