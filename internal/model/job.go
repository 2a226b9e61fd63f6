package model

import "time"

// Job statuses
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobComplete   = "complete"
	JobFailed     = "failed"
)

// Job tracks an asynchronous sequencing request
type Job struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Request   *SequenceRequest  `json:"request,omitempty"`
	Result    *SequenceResponse `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// JobAccepted is returned when a job is queued
type JobAccepted struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
