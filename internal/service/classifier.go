package service

import (
	"context"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/strauser85/snap-sold-sub001/internal/model"
	"github.com/strauser85/snap-sold-sub001/internal/utils"
)

// Classifier defaults
const (
	FallbackDescription       = "Property photo"
	DefaultFallbackConfidence = 0.2
	DefaultClassifierDelay    = 400 * time.Millisecond
	DefaultClassifierTimeout  = 20 * time.Second
)

// VisionClient is the external image-understanding service
type VisionClient interface {
	// ClassifyImage describes the room shown in one photo
	ClassifyImage(ctx context.Context, imageURL string) (*model.VisionResult, error)
}

// ClassifierOptions controls how photos are scheduled against the vision service
type ClassifierOptions struct {
	Delay              time.Duration // minimum spacing between call starts
	Concurrency        int           // calls in flight at once, 1 = serial
	Timeout            time.Duration // per call
	FallbackConfidence float64
}

// ClassificationCallback receives each result as soon as it is ready.
// Calls are serialized.
type ClassificationCallback func(index int, result model.ImageClassification)

// RoomClassifier labels listing photos with room categories. It never fails:
// anything the vision service cannot answer degrades to a low-confidence
// "other" classification.
type RoomClassifier struct {
	client             VisionClient
	limiter            *RateLimiter
	concurrency        int
	timeout            time.Duration
	fallbackConfidence float64
}

// NewRoomClassifier creates a classifier. client may be nil, in which case
// every photo gets the fallback classification.
func NewRoomClassifier(client VisionClient, opts ClassifierOptions) *RoomClassifier {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultClassifierTimeout
	}
	if opts.FallbackConfidence < 0 || opts.FallbackConfidence > 1 {
		opts.FallbackConfidence = DefaultFallbackConfidence
	}

	return &RoomClassifier{
		client:             client,
		limiter:            NewRateLimiter(opts.Delay),
		concurrency:        opts.Concurrency,
		timeout:            opts.Timeout,
		fallbackConfidence: opts.FallbackConfidence,
	}
}

// Enabled reports whether a vision service is configured
func (c *RoomClassifier) Enabled() bool {
	return c.client != nil
}

// Fallback is the classification used when the vision service gives no usable answer
func (c *RoomClassifier) Fallback(imageURL string) model.ImageClassification {
	return model.ImageClassification{
		SourceURL:    imageURL,
		RoomCategory: model.Other,
		Features:     []string{},
		Description:  FallbackDescription,
		Confidence:   c.fallbackConfidence,
		Fallback:     true,
	}
}

// Classify labels one photo
func (c *RoomClassifier) Classify(ctx context.Context, imageURL string) model.ImageClassification {
	if c.client == nil {
		return c.Fallback(imageURL)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.ClassifyImage(callCtx, imageURL)
	if err != nil {
		log.Printf("⚠️  Vision classification failed for %s: %v, using fallback", imageURL, err)
		return c.Fallback(imageURL)
	}
	if result == nil || strings.TrimSpace(result.RoomType) == "" {
		log.Printf("⚠️  Vision service returned no room type for %s, using fallback", imageURL)
		return c.Fallback(imageURL)
	}

	description := strings.TrimSpace(result.Description)
	if description == "" {
		description = FallbackDescription
	}

	return model.ImageClassification{
		SourceURL:    imageURL,
		RoomCategory: utils.NormalizeRoomLabel(result.RoomType),
		Features:     utils.NormalizeFeatures(result.Features),
		Description:  description,
		Confidence:   clampConfidence(result.Confidence),
	}
}

// ClassifyAll labels every photo, keeping the input order in the result.
// Once ctx is done the remaining photos get the fallback classification.
func (c *RoomClassifier) ClassifyAll(ctx context.Context, imageURLs []string, onResult ClassificationCallback) []model.ImageClassification {
	results := make([]model.ImageClassification, len(imageURLs))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	report := func(i int, r model.ImageClassification) {
		results[i] = r
		if onResult != nil {
			mu.Lock()
			onResult(i, r)
			mu.Unlock()
		}
	}

	sem := make(chan struct{}, c.concurrency)
	for i, imageURL := range imageURLs {
		if c.client == nil {
			report(i, c.Fallback(imageURL))
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			report(i, c.Fallback(imageURL))
			continue
		}

		if err := c.limiter.Wait(ctx); err != nil {
			<-sem
			report(i, c.Fallback(imageURL))
			continue
		}

		wg.Add(1)
		go func(i int, imageURL string) {
			defer wg.Done()
			defer func() { <-sem }()
			report(i, c.Classify(ctx, imageURL))
		}(i, imageURL)
	}

	wg.Wait()
	return results
}

func clampConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
