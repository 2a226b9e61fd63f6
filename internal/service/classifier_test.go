package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// fakeVision answers from a fixed table keyed by image URL
type fakeVision struct {
	results map[string]*model.VisionResult
	errs    map[string]error
	delay   map[string]time.Duration

	mu       sync.Mutex
	calls    []string
	inFlight int32
	maxSeen  int32
}

func (f *fakeVision) ClassifyImage(ctx context.Context, imageURL string) (*model.VisionResult, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, imageURL)
	f.mu.Unlock()

	if d := f.delay[imageURL]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[imageURL]; err != nil {
		return nil, err
	}
	return f.results[imageURL], nil
}

func assertFallback(t *testing.T, got model.ImageClassification, url string) {
	t.Helper()
	if !got.Fallback || got.RoomCategory != model.Other || got.Confidence != DefaultFallbackConfidence ||
		got.Description != FallbackDescription || len(got.Features) != 0 || got.SourceURL != url {
		t.Errorf("got %+v, want fallback for %s", got, url)
	}
}

func TestRoomClassifier_Classify(t *testing.T) {
	vision := &fakeVision{
		results: map[string]*model.VisionResult{
			"kitchen.jpg": {RoomType: "Kitchen", Features: []string{"Island", "island", " Granite Counters "}, Description: "Bright kitchen.", Confidence: 0.92},
			"suite.jpg":   {RoomType: "primary bedroom", Description: "", Confidence: 1.7},
			"attic.jpg":   {RoomType: "attic", Description: "Finished attic.", Confidence: 0.6},
			"blank.jpg":   {RoomType: "  ", Confidence: 0.9},
			"nan.jpg":     {RoomType: "pool", Confidence: math.NaN()},
		},
		errs: map[string]error{
			"broken.jpg": errors.New("503 service unavailable"),
		},
	}
	classifier := NewRoomClassifier(vision, ClassifierOptions{})
	ctx := context.Background()

	t.Run("normalizes a good answer", func(t *testing.T) {
		got := classifier.Classify(ctx, "kitchen.jpg")
		if got.RoomCategory != model.Kitchen || got.Confidence != 0.92 || got.Fallback {
			t.Errorf("Classify() = %+v", got)
		}
		if len(got.Features) != 2 || got.Features[0] != "island" || got.Features[1] != "granite counters" {
			t.Errorf("Features = %v", got.Features)
		}
	})

	t.Run("alias label and clamped confidence", func(t *testing.T) {
		got := classifier.Classify(ctx, "suite.jpg")
		if got.RoomCategory != model.MasterBedroom || got.Confidence != 1 || got.Description != FallbackDescription {
			t.Errorf("Classify() = %+v", got)
		}
	})

	t.Run("unknown label maps to other", func(t *testing.T) {
		got := classifier.Classify(ctx, "attic.jpg")
		if got.RoomCategory != model.Other || got.Fallback || got.Confidence != 0.6 {
			t.Errorf("Classify() = %+v", got)
		}
	})

	t.Run("NaN confidence", func(t *testing.T) {
		if got := classifier.Classify(ctx, "nan.jpg"); got.Confidence != 0 {
			t.Errorf("Confidence = %v, want 0", got.Confidence)
		}
	})

	t.Run("service error falls back", func(t *testing.T) {
		assertFallback(t, classifier.Classify(ctx, "broken.jpg"), "broken.jpg")
	})

	t.Run("blank room type falls back", func(t *testing.T) {
		assertFallback(t, classifier.Classify(ctx, "blank.jpg"), "blank.jpg")
	})

	t.Run("nil result falls back", func(t *testing.T) {
		assertFallback(t, classifier.Classify(ctx, "missing.jpg"), "missing.jpg")
	})
}

func TestRoomClassifier_NoClient(t *testing.T) {
	classifier := NewRoomClassifier(nil, ClassifierOptions{})
	if classifier.Enabled() {
		t.Error("Enabled() = true without a client")
	}

	results := classifier.ClassifyAll(context.Background(), []string{"a", "b"}, nil)
	for i, url := range []string{"a", "b"} {
		assertFallback(t, results[i], url)
	}
}

func TestRoomClassifier_Timeout(t *testing.T) {
	vision := &fakeVision{
		results: map[string]*model.VisionResult{"slow.jpg": {RoomType: "kitchen", Confidence: 0.9}},
		delay:   map[string]time.Duration{"slow.jpg": time.Second},
	}
	classifier := NewRoomClassifier(vision, ClassifierOptions{Timeout: 20 * time.Millisecond})

	assertFallback(t, classifier.Classify(context.Background(), "slow.jpg"), "slow.jpg")
}

func TestRoomClassifier_ClassifyAllKeepsOrder(t *testing.T) {
	urls := []string{"a", "b", "c", "d"}
	vision := &fakeVision{
		results: map[string]*model.VisionResult{
			"a": {RoomType: "kitchen", Confidence: 0.9},
			"b": {RoomType: "pool", Confidence: 0.8},
			"c": {RoomType: "garage", Confidence: 0.7},
			"d": {RoomType: "yard", Confidence: 0.6},
		},
		errs: map[string]error{"c": errors.New("boom")},
		// earlier images finish last
		delay: map[string]time.Duration{"a": 60 * time.Millisecond, "b": 40 * time.Millisecond, "c": 20 * time.Millisecond},
	}
	classifier := NewRoomClassifier(vision, ClassifierOptions{Concurrency: 4})

	var mu sync.Mutex
	reported := map[int]bool{}
	results := classifier.ClassifyAll(context.Background(), urls, func(i int, r model.ImageClassification) {
		mu.Lock()
		defer mu.Unlock()
		if reported[i] {
			t.Errorf("index %d reported twice", i)
		}
		reported[i] = true
		if r.SourceURL != urls[i] {
			t.Errorf("callback index %d got %s", i, r.SourceURL)
		}
	})

	if len(reported) != len(urls) {
		t.Errorf("callback saw %d results, want %d", len(reported), len(urls))
	}

	want := []model.RoomCategory{model.Kitchen, model.Pool, model.Other, model.Yard}
	for i, r := range results {
		if r.SourceURL != urls[i] || r.RoomCategory != want[i] {
			t.Errorf("results[%d] = %s/%s, want %s/%s", i, r.SourceURL, r.RoomCategory, urls[i], want[i])
		}
	}
	if !results[2].Fallback {
		t.Error("failed image should be a fallback")
	}
}

func TestRoomClassifier_SerialByDefault(t *testing.T) {
	vision := &fakeVision{
		results: map[string]*model.VisionResult{},
		delay:   map[string]time.Duration{"a": 10 * time.Millisecond, "b": 10 * time.Millisecond, "c": 10 * time.Millisecond},
	}
	classifier := NewRoomClassifier(vision, ClassifierOptions{})

	classifier.ClassifyAll(context.Background(), []string{"a", "b", "c"}, nil)

	if got := atomic.LoadInt32(&vision.maxSeen); got != 1 {
		t.Errorf("max concurrent calls = %d, want 1", got)
	}
	if len(vision.calls) != 3 || vision.calls[0] != "a" || vision.calls[2] != "c" {
		t.Errorf("calls = %v, want a, b, c in order", vision.calls)
	}
}

func TestRoomClassifier_Delay(t *testing.T) {
	vision := &fakeVision{results: map[string]*model.VisionResult{}}
	classifier := NewRoomClassifier(vision, ClassifierOptions{Delay: 30 * time.Millisecond})

	start := time.Now()
	classifier.ClassifyAll(context.Background(), []string{"a", "b", "c"}, nil)

	// the first call is immediate, the next two wait one interval each
	if elapsed := time.Since(start); elapsed < 55*time.Millisecond {
		t.Errorf("three calls took %v, want at least two delay intervals", elapsed)
	}
}

func TestRoomClassifier_CancelledContext(t *testing.T) {
	vision := &fakeVision{
		results: map[string]*model.VisionResult{"a": {RoomType: "kitchen", Confidence: 0.9}},
	}
	classifier := NewRoomClassifier(vision, ClassifierOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := classifier.ClassifyAll(ctx, []string{"a", "b"}, nil)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.SourceURL == "" || r.RoomCategory == "" {
			t.Errorf("results[%d] is empty: %+v", i, r)
		}
	}
}
