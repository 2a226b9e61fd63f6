package service

import (
	"log"

	"github.com/strauser85/snap-sold-sub001/internal/config"
	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// BuildSequenceService wires the engine from configuration. Passing
// offline=true leaves the vision client out so every photo takes the
// fallback path. runs may be nil.
func BuildSequenceService(cfg *config.Config, table model.CategoryTable, runs RunRecorder, offline bool) *SequenceService {
	// A nil *OpenAIVisionClient must not end up inside the interface
	var vision VisionClient
	if cfg.OpenAI.Enabled && !offline {
		vision = NewOpenAIVisionClient(&cfg.OpenAI)
		log.Printf("✅ Vision client initialized")
		log.Printf("   - Model: %s", cfg.OpenAI.VisionModel)
		log.Printf("   - Detail: %s", cfg.OpenAI.Detail)
		log.Printf("   - Concurrency: %d, delay: %s", cfg.Classifier.Concurrency, cfg.Classifier.Delay)
	} else {
		log.Println("⚠️  Vision classification is disabled - every photo will use the fallback category")
	}

	classifier := NewRoomClassifier(vision, ClassifierOptions{
		Delay:              cfg.Classifier.Delay,
		Concurrency:        cfg.Classifier.Concurrency,
		Timeout:            cfg.Classifier.Timeout,
		FallbackConfidence: cfg.Classifier.FallbackConfidence,
	})

	estimator := NewDurationEstimator(
		cfg.Narration.WordsPerMinute,
		cfg.Narration.SpeedMultiplier,
		cfg.Narration.MinSeconds,
		cfg.Narration.MaxSeconds,
	)

	segmenter := NewCaptionSegmenter()
	segmenter.ChunkWords = cfg.Captions.ChunkWords
	segmenter.MinChunkWords = cfg.Captions.MinChunkWords
	segmenter.MinChunkSeconds = cfg.Captions.MinChunkSeconds
	segmenter.StartOffset = cfg.Captions.StartOffset
	segmenter.Gap = cfg.Captions.Gap
	segmenter.ClampToDuration = cfg.Captions.ClampToDuration

	var photos PhotoSource
	if !offline {
		photos = NewListingPhotoFetcher(cfg.Listing.FetchTimeout, cfg.Listing.MaxPhotos, cfg.Listing.UserAgent)
	}

	return NewSequenceService(
		classifier,
		NewScriptScorer(table),
		estimator,
		segmenter,
		photos,
		runs,
		SequenceOptions{
			MaxImages:          cfg.Classifier.MaxImages,
			MinPerImageSeconds: cfg.Timing.MinPerImageSeconds,
		},
	)
}
