package model

// VisionResult is the raw answer of the external image-understanding service
type VisionResult struct {
	RoomType    string   `json:"room_type" jsonschema_description:"One of: exterior_front, exterior_back, kitchen, living_room, dining_room, master_bedroom, bedroom, bathroom, garage, pool, yard, other"`
	Features    []string `json:"features" jsonschema_description:"Short lowercase tags for notable features visible in the photo, e.g. granite counters, vaulted ceiling"`
	Description string   `json:"description" jsonschema_description:"One sentence describing the photo for a listing video"`
	Confidence  float64  `json:"confidence" jsonschema_description:"Certainty of the room_type assignment between 0 and 1"`
}

// ImageClassification labels one listing photo with a room category
type ImageClassification struct {
	SourceURL    string       `json:"source_url"`
	RoomCategory RoomCategory `json:"room_category"`
	Features     []string     `json:"features"`
	Description  string       `json:"description"`
	Confidence   float64      `json:"confidence"`
	Fallback     bool         `json:"fallback,omitempty"` // true when the vision service could not classify the photo
}

// ArrangedImage is a classified photo with its position in the final slideshow
type ArrangedImage struct {
	ImageClassification
	SequenceIndex int `json:"sequence_index"`
}

// CaptionSegment is one on-screen caption chunk
type CaptionSegment struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// TimingPlan tells the renderer how long each slide stays on screen
type TimingPlan struct {
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	PerImageSeconds      float64 `json:"per_image_seconds"`
	ImageCount           int     `json:"image_count"`
}
