package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// ErrJobNotFound is returned for unknown or expired job IDs
var ErrJobNotFound = errors.New("job not found")

const jobKeyPrefix = "sequence_job:"

// Store persists job state
type Store interface {
	Get(ctx context.Context, id string) (*model.Job, error)
	Save(ctx context.Context, job *model.Job) error
}

// Sequencer runs one sequencing request
type Sequencer interface {
	Sequence(ctx context.Context, req *model.SequenceRequest) (*model.SequenceResponse, error)
}

// RedisJobStore keeps job state in Redis with a TTL
type RedisJobStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisJobStore creates a job store
func NewRedisJobStore(rdb *redis.Client, ttl time.Duration) *RedisJobStore {
	return &RedisJobStore{rdb: rdb, ttl: ttl}
}

// Get loads a job
func (s *RedisJobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := s.rdb.Get(ctx, jobKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return &job, nil
}

// Save stores a job, refreshing its TTL
func (s *RedisJobStore) Save(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := s.rdb.Set(ctx, jobKeyPrefix+job.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// Enqueuer pushes task payloads onto a queue
type Enqueuer interface {
	Enqueue(ctx context.Context, queueName string, payload interface{}) error
}

// JobQueue accepts sequencing requests for background processing
type JobQueue struct {
	store     Store
	enqueuer  Enqueuer
	queueName string
}

// NewJobQueue creates a job queue publishing to queueName
func NewJobQueue(store Store, enqueuer Enqueuer, queueName string) *JobQueue {
	if queueName == "" {
		queueName = DefaultQueue
	}
	return &JobQueue{store: store, enqueuer: enqueuer, queueName: queueName}
}

// Submit records a pending job and queues it
func (q *JobQueue) Submit(ctx context.Context, req *model.SequenceRequest) (*model.Job, error) {
	now := time.Now().UTC()
	job := &model.Job{
		ID:        uuid.NewString(),
		Status:    model.JobPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := q.store.Save(ctx, job); err != nil {
		return nil, err
	}
	if err := q.enqueuer.Enqueue(ctx, q.queueName, SequenceTaskPayload{JobID: job.ID}); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return job, nil
}

// Get returns the current state of a job
func (q *JobQueue) Get(ctx context.Context, id string) (*model.Job, error) {
	return q.store.Get(ctx, id)
}

// NewSequenceTaskHandler runs queued sequencing jobs and records their outcome
func NewSequenceTaskHandler(store Store, sequencer Sequencer) TaskHandler {
	return func(ctx context.Context, payload string) error {
		var task SequenceTaskPayload
		if err := json.Unmarshal([]byte(payload), &task); err != nil {
			return fmt.Errorf("invalid task payload: %w", err)
		}

		job, err := store.Get(ctx, task.JobID)
		if err != nil {
			return fmt.Errorf("job %s: %w", task.JobID, err)
		}
		if job.Request == nil {
			job.Status = model.JobFailed
			job.Error = "job has no request"
			job.UpdatedAt = time.Now().UTC()
			return store.Save(ctx, job)
		}

		job.Status = model.JobProcessing
		job.UpdatedAt = time.Now().UTC()
		if err := store.Save(ctx, job); err != nil {
			return err
		}

		resp, err := sequencer.Sequence(ctx, job.Request)
		if err != nil {
			log.Printf("⚠️  Job %s failed: %v", job.ID, err)
			job.Status = model.JobFailed
			job.Error = err.Error()
		} else {
			job.Status = model.JobComplete
			job.Result = resp
		}
		job.UpdatedAt = time.Now().UTC()

		return store.Save(ctx, job)
	}
}
