package service

import (
	"strings"
)

// Narration pacing defaults
const (
	DefaultWordsPerMinute  = 150.0
	DefaultSpeedMultiplier = 1.0
	DefaultMinSeconds      = 15.0
)

// DurationEstimator converts narration word counts into seconds of speech
type DurationEstimator struct {
	WordsPerMinute  float64
	SpeedMultiplier float64
	MinSeconds      float64
	MaxSeconds      float64 // 0 disables the ceiling
}

// NewDurationEstimator creates an estimator; non-positive rates fall back to defaults
func NewDurationEstimator(wordsPerMinute, speedMultiplier, minSeconds, maxSeconds float64) DurationEstimator {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	if speedMultiplier <= 0 {
		speedMultiplier = DefaultSpeedMultiplier
	}
	if minSeconds < 0 {
		minSeconds = 0
	}
	if maxSeconds < 0 {
		maxSeconds = 0
	}
	return DurationEstimator{
		WordsPerMinute:  wordsPerMinute,
		SpeedMultiplier: speedMultiplier,
		MinSeconds:      minSeconds,
		MaxSeconds:      maxSeconds,
	}
}

// WithOverrides returns a copy using per-request rate settings when present
func (e DurationEstimator) WithOverrides(wordsPerMinute, speedMultiplier *float64) (DurationEstimator, error) {
	if wordsPerMinute != nil {
		if *wordsPerMinute <= 0 {
			return e, ErrInvalidRate
		}
		e.WordsPerMinute = *wordsPerMinute
	}
	if speedMultiplier != nil {
		if *speedMultiplier <= 0 {
			return e, ErrInvalidRate
		}
		e.SpeedMultiplier = *speedMultiplier
	}
	return e, nil
}

// WordsPerSecond is the effective speaking rate
func (e DurationEstimator) WordsPerSecond() float64 {
	wpm := e.WordsPerMinute
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	speed := e.SpeedMultiplier
	if speed <= 0 {
		speed = DefaultSpeedMultiplier
	}
	return wpm * speed / 60
}

// Estimate returns the narration length in seconds, floored at MinSeconds
// and capped at MaxSeconds when a ceiling is configured
func (e DurationEstimator) Estimate(text string) float64 {
	return e.EstimateWords(CountWords(text))
}

// EstimateWords is Estimate for an already counted narration
func (e DurationEstimator) EstimateWords(words int) float64 {
	seconds := float64(words) / e.WordsPerSecond()
	if seconds < e.MinSeconds {
		seconds = e.MinSeconds
	}
	if e.MaxSeconds > 0 && e.MaxSeconds >= e.MinSeconds && seconds > e.MaxSeconds {
		seconds = e.MaxSeconds
	}
	return seconds
}

// CountWords counts whitespace-separated words
func CountWords(text string) int {
	return len(strings.Fields(text))
}
