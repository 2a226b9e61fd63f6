package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// PhotoSource discovers photo URLs for a listing page
type PhotoSource interface {
	Fetch(ctx context.Context, listingURL string) ([]string, error)
}

// RunRecorder persists run summaries
type RunRecorder interface {
	LogRun(ctx context.Context, run *model.Run) error
}

// SequenceEventCallback is called for streaming sequencing events
type SequenceEventCallback func(event string, data any) error

// SequenceOptions holds request limits and timing settings
type SequenceOptions struct {
	MaxImages          int // 0 means unlimited
	MinPerImageSeconds float64
}

// SequenceService plans a listing video: photo order, captions and slide timing
type SequenceService struct {
	classifier *RoomClassifier
	scorer     *ScriptScorer
	estimator  DurationEstimator
	segmenter  CaptionSegmenter
	photos     PhotoSource // optional
	runs       RunRecorder // optional
	opts       SequenceOptions
}

// NewSequenceService creates a new sequencing service. photos and runs may be nil.
func NewSequenceService(
	classifier *RoomClassifier,
	scorer *ScriptScorer,
	estimator DurationEstimator,
	segmenter CaptionSegmenter,
	photos PhotoSource,
	runs RunRecorder,
	opts SequenceOptions,
) *SequenceService {
	return &SequenceService{
		classifier: classifier,
		scorer:     scorer,
		estimator:  estimator,
		segmenter:  segmenter,
		photos:     photos,
		runs:       runs,
		opts:       opts,
	}
}

// Sequence produces the complete plan for a narration and its photos
func (s *SequenceService) Sequence(ctx context.Context, req *model.SequenceRequest) (*model.SequenceResponse, error) {
	return s.sequence(ctx, req, nil)
}

// SequenceStream is Sequence with progress events
func (s *SequenceService) SequenceStream(ctx context.Context, req *model.SequenceRequest, callback SequenceEventCallback) (*model.SequenceResponse, error) {
	return s.sequence(ctx, req, callback)
}

func (s *SequenceService) sequence(ctx context.Context, req *model.SequenceRequest, callback SequenceEventCallback) (*model.SequenceResponse, error) {
	startTime := time.Now()

	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	narration := strings.TrimSpace(req.Narration)
	if narration == "" {
		return nil, ErrMissingNarration
	}

	estimator, err := s.estimator.WithOverrides(req.WordsPerMinute, req.SpeedMultiplier)
	if err != nil {
		return nil, err
	}

	if err := emit("resolving", map[string]any{
		"status": "Resolving listing photos...",
	}); err != nil {
		return nil, err
	}

	imageURLs, err := s.resolveImages(ctx, req)
	if err != nil {
		return nil, err
	}

	// Classification and script scoring are independent until the merge
	var (
		order     model.CategoryOrder
		scoreDone = make(chan struct{})
	)
	go func() {
		defer close(scoreDone)
		order = s.scorer.Analyze(narration)
	}()

	var (
		streamMu  sync.Mutex
		streamErr error
	)
	classifyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	classifications := s.classifier.ClassifyAll(classifyCtx, imageURLs, func(index int, result model.ImageClassification) {
		if callback == nil {
			return
		}
		streamMu.Lock()
		defer streamMu.Unlock()
		if streamErr != nil {
			return
		}
		if err := emit("classified", map[string]any{
			"index":          index,
			"classification": result,
		}); err != nil {
			streamErr = err
			cancel()
		}
	})
	<-scoreDone

	if streamErr != nil {
		return nil, streamErr
	}

	images := MergeSequence(classifications, order)
	if err := emit("ordered", map[string]any{
		"category_order": order.Categories,
		"images":         images,
	}); err != nil {
		return nil, err
	}

	wordCount := CountWords(narration)
	duration := estimator.EstimateWords(wordCount)
	segmenter := s.segmenter
	segmenter.FallbackWordsPerSecond = estimator.WordsPerSecond()
	captions := segmenter.Segment(narration, duration)
	if err := emit("captions", captions); err != nil {
		return nil, err
	}

	timing, err := AllocateTiming(duration, len(images), s.opts.MinPerImageSeconds)
	if err != nil {
		return nil, err
	}
	if err := emit("timing", timing); err != nil {
		return nil, err
	}

	resp := &model.SequenceResponse{
		RunID:          uuid.NewString(),
		Images:         images,
		Captions:       captions,
		Timing:         timing,
		CategoryOrder:  order.Categories,
		CategoryScores: order.Scores,
		WordCount:      wordCount,
		FallbackCount:  CountFallbacks(classifications),
		Took:           time.Since(startTime).Milliseconds(),
	}

	// Log run (non-blocking)
	if s.runs != nil {
		run := newRunSummary(resp, order)
		go func() {
			if err := s.runs.LogRun(context.Background(), run); err != nil {
				log.Printf("⚠️  Failed to log run %s: %v", run.ID, err)
			}
		}()
	}

	return resp, nil
}

// Captions times a narration without touching any photos
func (s *SequenceService) Captions(req *model.CaptionsRequest) (*model.CaptionsResponse, error) {
	narration := strings.TrimSpace(req.Narration)
	if narration == "" {
		return nil, ErrMissingNarration
	}

	estimator, err := s.estimator.WithOverrides(req.WordsPerMinute, req.SpeedMultiplier)
	if err != nil {
		return nil, err
	}

	wordCount := CountWords(narration)
	duration := estimator.EstimateWords(wordCount)
	segmenter := s.segmenter
	segmenter.FallbackWordsPerSecond = estimator.WordsPerSecond()

	return &model.CaptionsResponse{
		Captions:        segmenter.Segment(narration, duration),
		DurationSeconds: duration,
		WordCount:       wordCount,
	}, nil
}

// ScoreScript returns the walkthrough order a narration implies
func (s *SequenceService) ScoreScript(narration string) *model.ScoreResponse {
	order := s.scorer.Analyze(narration)
	return &model.ScoreResponse{
		CategoryOrder:  order.Categories,
		CategoryScores: order.Scores,
	}
}

// resolveImages returns the de-duplicated photo list for a request,
// scraping the listing page when no URLs were given
func (s *SequenceService) resolveImages(ctx context.Context, req *model.SequenceRequest) ([]string, error) {
	imageURLs := DedupeURLs(req.ImageURLs)

	if len(imageURLs) == 0 && strings.TrimSpace(req.ListingURL) != "" {
		if s.photos == nil {
			return nil, fmt.Errorf("%w: listing page discovery is disabled", ErrListingFetch)
		}
		photos, err := s.photos.Fetch(ctx, strings.TrimSpace(req.ListingURL))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrListingFetch, err)
		}
		imageURLs = DedupeURLs(photos)
	}

	if len(imageURLs) == 0 {
		return nil, ErrEmptyImageList
	}
	if s.opts.MaxImages > 0 && len(imageURLs) > s.opts.MaxImages {
		return nil, fmt.Errorf("%w: got %d, limit is %d", ErrTooManyImages, len(imageURLs), s.opts.MaxImages)
	}

	return imageURLs, nil
}

// DedupeURLs trims URLs and drops blanks and repeats, keeping first occurrence
func DedupeURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// newRunSummary keeps only aggregates; classifications are never stored
func newRunSummary(resp *model.SequenceResponse, order model.CategoryOrder) *model.Run {
	categories := make(model.JSONArray, len(order.Categories))
	for i, c := range order.Categories {
		categories[i] = string(c)
	}

	return &model.Run{
		ID:              resp.RunID,
		WordCount:       resp.WordCount,
		ImageCount:      len(resp.Images),
		FallbackCount:   resp.FallbackCount,
		CategoryOrder:   categories,
		CategoryScores:  pgvector.NewVector(order.ScoreVector()),
		TotalSeconds:    resp.Timing.TotalDurationSeconds,
		PerImageSeconds: resp.Timing.PerImageSeconds,
		CaptionCount:    len(resp.Captions),
		TookMs:          resp.Took,
		CreatedAt:       time.Now(),
	}
}
