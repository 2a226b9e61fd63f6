package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strauser85/snap-sold-sub001/internal/model"
	"github.com/strauser85/snap-sold-sub001/internal/repository"
)

// Similar run search bounds
const (
	DefaultSimilarRuns = 5
	MaxSimilarRuns     = 50
)

// RunRepository is the run log storage
type RunRepository interface {
	GetRun(ctx context.Context, id string) (*model.Run, error)
	SimilarRuns(ctx context.Context, id string, limit int) ([]model.Run, error)
	LogFeedback(ctx context.Context, id string, action string) error
	PruneRuns(ctx context.Context, cutoff time.Time) (int64, error)
}

// RunService reads and maintains the run log
type RunService struct {
	repo      RunRepository
	retention time.Duration
}

// NewRunService creates a new run service
func NewRunService(repo RunRepository, retention time.Duration) *RunService {
	return &RunService{repo: repo, retention: retention}
}

// GetRun retrieves a run summary
func (s *RunService) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if !validRunID(id) {
		return nil, ErrRunNotFound
	}
	run, err := s.repo.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// SimilarRuns returns runs whose narrations covered similar rooms
func (s *RunService) SimilarRuns(ctx context.Context, id string, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = DefaultSimilarRuns
	}
	if limit > MaxSimilarRuns {
		limit = MaxSimilarRuns
	}

	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.SimilarRuns(ctx, id, limit)
}

// LogFeedback records what the user did with a plan
func (s *RunService) LogFeedback(ctx context.Context, id string, action string) error {
	if !validRunID(id) {
		return ErrRunNotFound
	}
	err := s.repo.LogFeedback(ctx, id, action)
	if errors.Is(err, repository.ErrRunNotFound) {
		return ErrRunNotFound
	}
	return err
}

// Prune deletes runs older than the retention window
func (s *RunService) Prune(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	n, err := s.repo.PruneRuns(ctx, time.Now().Add(-s.retention))
	if err != nil {
		return 0, fmt.Errorf("pruning run log: %w", err)
	}
	return n, nil
}

// validRunID reports whether id can name a run; run IDs are UUIDs
func validRunID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
