package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultQueue carries asynchronous sequencing jobs when no queue is configured
const DefaultQueue = "sequence_jobs"

// SequenceTaskPayload is the payload pushed for each sequencing job
type SequenceTaskPayload struct {
	JobID string `json:"job_id"`
}

// TaskHandler is a function that processes a task payload.
type TaskHandler func(ctx context.Context, payload string) error

// Processor holds the Redis connection and registered task handlers.
type Processor struct {
	RDB      *redis.Client
	handlers map[string]TaskHandler
}

// NewProcessor creates a new worker processor.
func NewProcessor(rdb *redis.Client) *Processor {
	return &Processor{
		RDB:      rdb,
		handlers: make(map[string]TaskHandler),
	}
}

// Register maps a queue name to a handler function.
func (p *Processor) Register(queueName string, handler TaskHandler) {
	p.handlers[queueName] = handler
	log.Printf("Registered handler for queue: %s", queueName)
}

// Enqueue adds a new task to a queue.
func (p *Processor) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	payloadStr, err := Marshal(payload)
	if err != nil {
		return err
	}
	return p.RDB.LPush(ctx, queueName, payloadStr).Err()
}

// Listen pops tasks from the given queues until ctx is cancelled.
func (p *Processor) Listen(ctx context.Context, queueNames ...string) {
	log.Printf("Worker listening on %d queues: %v", len(queueNames), queueNames)

	for {
		if ctx.Err() != nil {
			log.Printf("Worker stopped: %v", ctx.Err())
			return
		}

		// BRPop blocks until a task is available on any of the listed queues.
		result, err := p.RDB.BRPop(ctx, 5*time.Second, queueNames...).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			log.Printf("Error popping from queue: %v", err)
			time.Sleep(time.Second)
			continue
		}

		// result[0] is the queue name, result[1] is the payload
		p.Dispatch(ctx, result[0], result[1])
	}
}

// Dispatch runs the handler registered for queueName
func (p *Processor) Dispatch(ctx context.Context, queueName, payload string) {
	handler, ok := p.handlers[queueName]
	if !ok {
		log.Printf("Error: No handler registered for queue %s", queueName)
		return
	}

	log.Printf("Received task from queue %s", queueName)

	if err := handler(ctx, payload); err != nil {
		log.Printf("Error processing task from %s: %v", queueName, err)
	}
}

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
