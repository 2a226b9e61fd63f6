package model

// SequenceRequest represents a request to plan a listing video
type SequenceRequest struct {
	Narration       string   `json:"narration" binding:"required"`
	ImageURLs       []string `json:"image_urls,omitempty"`
	ListingURL      string   `json:"listing_url,omitempty"` // photos are scraped from this page when image_urls is empty
	SpeedMultiplier *float64 `json:"speed_multiplier,omitempty"`
	WordsPerMinute  *float64 `json:"words_per_minute,omitempty"`
}

// SequenceResponse is the complete plan handed to the video renderer
type SequenceResponse struct {
	RunID          string               `json:"run_id"`
	Images         []ArrangedImage      `json:"images"`
	Captions       []CaptionSegment     `json:"captions"`
	Timing         TimingPlan           `json:"timing"`
	CategoryOrder  []RoomCategory       `json:"category_order"`
	CategoryScores map[RoomCategory]int `json:"category_scores"`
	WordCount      int                  `json:"word_count"`
	FallbackCount  int                  `json:"fallback_count"`
	Took           int64                `json:"took_ms"` // Response time in milliseconds
}

// CaptionsRequest asks for captions and a duration estimate only
type CaptionsRequest struct {
	Narration       string   `json:"narration" binding:"required"`
	SpeedMultiplier *float64 `json:"speed_multiplier,omitempty"`
	WordsPerMinute  *float64 `json:"words_per_minute,omitempty"`
}

// CaptionsResponse carries caption segments for a narration
type CaptionsResponse struct {
	Captions        []CaptionSegment `json:"captions"`
	DurationSeconds float64          `json:"duration_seconds"`
	WordCount       int              `json:"word_count"`
}

// ScoreRequest asks which rooms a narration talks about
type ScoreRequest struct {
	Narration string `json:"narration" binding:"required"`
}

// ScoreResponse is the inferred walkthrough order
type ScoreResponse struct {
	CategoryOrder  []RoomCategory       `json:"category_order"`
	CategoryScores map[RoomCategory]int `json:"category_scores"`
}
