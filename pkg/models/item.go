package models

import (
	"strings"
	"time"
)

// ItemType classifies a report as lost or found
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// Item statuses
const (
	ItemStatusActive  = "active"
	ItemStatusMatched = "matched"
	ItemStatusClosed  = "closed"
)

// Item represents a reported lost or found item
type Item struct {
	ItemID       string   `json:"item_id"`
	UserID       string   `json:"user_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ItemType     ItemType `json:"item_type"`
	RewardAmount float64  `json:"reward_amount"`
	ContactInfo  string   `json:"contact_info"`
	ImagePath    string   `json:"image_path,omitempty"`
	Status       string   `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// AI features; nil until the agent extracts them
	ImageFeatures []float32 `json:"image_features,omitempty"`
	TextEmbedding []float32 `json:"text_embedding,omitempty"`
}

// FeatureComplete reports whether both feature vectors are present.
// Only feature-complete items participate in matching.
func (i *Item) FeatureComplete() bool {
	return len(i.ImageFeatures) > 0 && len(i.TextEmbedding) > 0
}

// HasCoordinates reports whether both latitude and longitude are set
func (i *Item) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// OppositeType returns the item type to match against
func (i *Item) OppositeType() ItemType {
	if i.ItemType == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

// EmbeddingText combines title and description for text embedding
func (i *Item) EmbeddingText() string {
	return strings.TrimSpace(i.Title + " " + i.Description)
}

// ValidCategories lists the accepted item categories
var ValidCategories = []string{
	"wallet", "phone", "keys", "bag", "jewelry",
	"documents", "electronics", "clothing", "accessories", "other",
}

// ValidateCategory checks an item category
func ValidateCategory(category string) bool {
	c := strings.ToLower(category)
	for _, v := range ValidCategories {
		if c == v {
			return true
		}
	}
	return false
}

// ValidateItemType checks an item type
func ValidateItemType(itemType string) bool {
	t := ItemType(strings.ToLower(itemType))
	return t == ItemTypeLost || t == ItemTypeFound
}

// ValidateStatus checks an item status
func ValidateStatus(status string) bool {
	switch strings.ToLower(status) {
	case ItemStatusActive, ItemStatusMatched, ItemStatusClosed:
		return true
	}
	return false
}
