package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Kavirubc/findora/pkg/models"
)

// SQLiteStore implements Gateway plus the reporting-flow writes backing the
// CLI (items, users, match listings).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		item_id        TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		description    TEXT NOT NULL,
		category       TEXT NOT NULL,
		location       TEXT NOT NULL,
		latitude       REAL,
		longitude      REAL,
		item_type      TEXT NOT NULL,
		reward_amount  REAL DEFAULT 0,
		contact_info   TEXT NOT NULL,
		image_path     TEXT,
		status         TEXT DEFAULT 'active',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		image_features TEXT,
		text_embedding TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_items_type ON items(item_type);
	CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
	CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
	CREATE INDEX IF NOT EXISTS idx_items_user ON items(user_id);

	CREATE TABLE IF NOT EXISTS matches (
		match_id         TEXT PRIMARY KEY,
		lost_item_id     TEXT NOT NULL REFERENCES items(item_id),
		found_item_id    TEXT NOT NULL REFERENCES items(item_id),
		confidence_score REAL NOT NULL,
		image_similarity REAL NOT NULL,
		text_similarity  REAL NOT NULL,
		location_score   REAL NOT NULL,
		status           TEXT DEFAULT 'pending',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		UNIQUE(lost_item_id, found_item_id)
	);

	CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT PRIMARY KEY,
		email      TEXT UNIQUE NOT NULL,
		name       TEXT NOT NULL,
		phone      TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const itemColumns = `item_id, user_id, title, description, category, location,
	latitude, longitude, item_type, reward_amount, contact_info, image_path,
	status, created_at, updated_at, image_features, text_embedding`

// InsertItem stores a new item report
func (s *SQLiteStore) InsertItem(ctx context.Context, item *models.Item) error {
	imgJSON, err := vectorJSON(item.ImageFeatures)
	if err != nil {
		return fmt.Errorf("encode image features: %w", err)
	}
	txtJSON, err := vectorJSON(item.TextEmbedding)
	if err != nil {
		return fmt.Errorf("encode text embedding: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ItemID, item.UserID, item.Title, item.Description, item.Category,
		item.Location, item.Latitude, item.Longitude, string(item.ItemType),
		item.RewardAmount, item.ContactInfo, nullableString(item.ImagePath),
		item.Status, formatTime(item.CreatedAt), formatTime(item.UpdatedAt),
		imgJSON, txtJSON)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Item fetches a single item by ID; returns (nil, nil) when absent
func (s *SQLiteStore) Item(ctx context.Context, itemID string) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE item_id = ?`, itemID)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch item: %w", err)
	}
	return item, nil
}

// UnprocessedItems returns active items missing either vector, oldest first
func (s *SQLiteStore) UnprocessedItems(ctx context.Context, limit int) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE status = ?
		   AND (image_features IS NULL OR text_embedding IS NULL)
		 ORDER BY created_at ASC
		 LIMIT ?`, models.ItemStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unprocessed items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// CandidatePool returns items of the given type and status, newest first
func (s *SQLiteStore) CandidatePool(ctx context.Context, itemType models.ItemType, status string, limit int) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE status = ? AND item_type = ?
		 ORDER BY created_at DESC
		 LIMIT ?`, status, string(itemType), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate pool: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ItemsByType lists items for CLI display; itemType may be empty for all types
func (s *SQLiteStore) ItemsByType(ctx context.Context, itemType, status string, limit int) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = ?`
	args := []any{status}
	if itemType != "" {
		query += ` AND item_type = ?`
		args = append(args, itemType)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// WriteFeatures stores both extracted vectors for an item
func (s *SQLiteStore) WriteFeatures(ctx context.Context, itemID string, imageFeatures, textEmbedding []float32) error {
	imgJSON, err := vectorJSON(imageFeatures)
	if err != nil {
		return fmt.Errorf("encode image features: %w", err)
	}
	txtJSON, err := vectorJSON(textEmbedding)
	if err != nil {
		return fmt.Errorf("encode text embedding: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET image_features = ?, text_embedding = ?, updated_at = ?
		 WHERE item_id = ?`,
		imgJSON, txtJSON, formatTime(time.Now().UTC()), itemID)
	if err != nil {
		return fmt.Errorf("write features: %w", err)
	}

	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("write features: item %s not found", itemID)
	}
	return nil
}

// MatchExists reports whether the (lost, found) pair already has a match row
func (s *SQLiteStore) MatchExists(ctx context.Context, lostItemID, foundItemID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM matches WHERE lost_item_id = ? AND found_item_id = ?`,
		lostItemID, foundItemID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check match: %w", err)
	}
	return true, nil
}

// InsertMatch stores a match unless the pair already has one. The UNIQUE
// constraint on (lost_item_id, found_item_id) backs the dedup; INSERT OR
// IGNORE makes concurrent inserts race-safe.
func (s *SQLiteStore) InsertMatch(ctx context.Context, m *models.Match) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO matches
		 (match_id, lost_item_id, found_item_id, confidence_score,
		  image_similarity, text_similarity, location_score, status,
		  created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID, m.LostItemID, m.FoundItemID, m.ConfidenceScore,
		m.ImageSimilarity, m.TextSimilarity, m.LocationScore, m.Status,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
	if err != nil {
		return false, fmt.Errorf("insert match: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert match: %w", err)
	}
	return n > 0, nil
}

// MatchesForItem lists matches touching an item, highest confidence first
func (s *SQLiteStore) MatchesForItem(ctx context.Context, itemID string) ([]*models.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, lost_item_id, found_item_id, confidence_score,
		        image_similarity, text_similarity, location_score, status,
		        created_at, updated_at
		 FROM matches
		 WHERE lost_item_id = ? OR found_item_id = ?
		 ORDER BY confidence_score DESC`, itemID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var m models.Match
		var createdAt, updatedAt string
		if err := rows.Scan(&m.MatchID, &m.LostItemID, &m.FoundItemID,
			&m.ConfidenceScore, &m.ImageSimilarity, &m.TextSimilarity,
			&m.LocationScore, &m.Status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.CreatedAt = parseTime(createdAt)
		m.UpdatedAt = parseTime(updatedAt)
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

// InsertUser stores a new user
func (s *SQLiteStore) InsertUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, email, name, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.UserID, u.Email, u.Name, u.Phone,
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// User fetches a user by ID; returns (nil, nil) when absent
func (s *SQLiteStore) User(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email, name, phone, created_at, updated_at
		 FROM users WHERE user_id = ?`, userID).
		Scan(&u.UserID, &u.Email, &u.Name, &u.Phone, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var lat, lon sql.NullFloat64
	var imagePath, imgJSON, txtJSON sql.NullString
	var itemType, createdAt, updatedAt string

	err := row.Scan(&item.ItemID, &item.UserID, &item.Title, &item.Description,
		&item.Category, &item.Location, &lat, &lon, &itemType,
		&item.RewardAmount, &item.ContactInfo, &imagePath, &item.Status,
		&createdAt, &updatedAt, &imgJSON, &txtJSON)
	if err != nil {
		return nil, err
	}

	item.ItemType = models.ItemType(itemType)
	item.CreatedAt = parseTime(createdAt)
	item.UpdatedAt = parseTime(updatedAt)
	if lat.Valid {
		item.Latitude = &lat.Float64
	}
	if lon.Valid {
		item.Longitude = &lon.Float64
	}
	if imagePath.Valid {
		item.ImagePath = imagePath.String
	}
	if imgJSON.Valid {
		if err := json.Unmarshal([]byte(imgJSON.String), &item.ImageFeatures); err != nil {
			return nil, fmt.Errorf("decode image features: %w", err)
		}
	}
	if txtJSON.Valid {
		if err := json.Unmarshal([]byte(txtJSON.String), &item.TextEmbedding); err != nil {
			return nil, fmt.Errorf("decode text embedding: %w", err)
		}
	}

	return &item, nil
}

func collectItems(rows *sql.Rows) ([]*models.Item, error) {
	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func vectorJSON(v []float32) (*string, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
