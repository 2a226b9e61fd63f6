package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
)

// Run is the persisted summary of one sequencing computation.
// Per-image classifications are never stored; only aggregates are.
type Run struct {
	ID              string          `json:"id" db:"id"`
	WordCount       int             `json:"word_count" db:"word_count"`
	ImageCount      int             `json:"image_count" db:"image_count"`
	FallbackCount   int             `json:"fallback_count" db:"fallback_count"`
	CategoryOrder   JSONArray       `json:"category_order" db:"category_order"`
	CategoryScores  pgvector.Vector `json:"-" db:"category_scores"`
	TotalSeconds    float64         `json:"total_seconds" db:"total_seconds"`
	PerImageSeconds float64         `json:"per_image_seconds" db:"per_image_seconds"`
	CaptionCount    int             `json:"caption_count" db:"caption_count"`
	TookMs          int64           `json:"took_ms" db:"took_ms"`
	Feedback        *string         `json:"feedback,omitempty" db:"feedback"`
	Distance        *float64        `json:"distance,omitempty" db:"distance"` // set by similarity queries
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Scores maps the stored score vector back to categories
func (r *Run) Scores() map[RoomCategory]int {
	scores := make(map[RoomCategory]int)
	vec := r.CategoryScores.Slice()
	for i, c := range AllCategories {
		if i < len(vec) && vec[i] > 0 {
			scores[c] = int(vec[i])
		}
	}
	return scores
}

// MarshalJSON adds the decoded category scores to the JSON form
func (r Run) MarshalJSON() ([]byte, error) {
	type alias Run
	return json.Marshal(struct {
		alias
		CategoryScores map[RoomCategory]int `json:"category_scores"`
	}{
		alias:          alias(r),
		CategoryScores: r.Scores(),
	})
}

// Run feedback actions
const (
	FeedbackAccepted  = "accepted"
	FeedbackReordered = "reordered"
	FeedbackRejected  = "rejected"
)

// FeedbackRequest records what the user did with a generated plan
type FeedbackRequest struct {
	Action string `json:"action" binding:"required,oneof=accepted reordered rejected"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
