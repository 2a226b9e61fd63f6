package service

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDurationEstimator_Estimate(t *testing.T) {
	tests := []struct {
		name      string
		estimator DurationEstimator
		text      string
		want      float64
	}{
		{
			name:      "short narration hits the floor",
			estimator: NewDurationEstimator(150, 1.0, 15, 0),
			text:      "Welcome to this home. The kitchen has granite counters. Schedule a tour today.",
			want:      15,
		},
		{
			name:      "no floor",
			estimator: NewDurationEstimator(150, 1.0, 0, 0),
			text:      strings.Repeat("word ", 12),
			want:      4.8,
		},
		{
			name:      "slowed narration",
			estimator: NewDurationEstimator(150, 0.85, 0, 0),
			text:      strings.Repeat("word ", 85),
			want:      40,
		},
		{
			name:      "ceiling",
			estimator: NewDurationEstimator(150, 1.0, 10, 30),
			text:      strings.Repeat("word ", 300),
			want:      30,
		},
		{
			name:      "non-positive rates use defaults",
			estimator: NewDurationEstimator(0, -1, 0, 0),
			text:      strings.Repeat("word ", 150),
			want:      60,
		},
		{
			name:      "empty text",
			estimator: NewDurationEstimator(150, 1.0, 15, 0),
			text:      "",
			want:      15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.estimator.Estimate(tt.text); !approxEqual(got, tt.want) {
				t.Errorf("Estimate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationEstimator_DoublingWords(t *testing.T) {
	e := NewDurationEstimator(150, 1.0, 15, 0)
	single := e.Estimate(strings.Repeat("room ", 100))
	double := e.Estimate(strings.Repeat("room ", 200))
	if !approxEqual(double, 2*single) {
		t.Errorf("doubling words: %v -> %v, want %v", single, double, 2*single)
	}
}

func TestDurationEstimator_WithOverrides(t *testing.T) {
	base := NewDurationEstimator(150, 1.0, 15, 0)

	e, err := base.WithOverrides(float64Ptr(180), float64Ptr(0.85))
	if err != nil {
		t.Fatalf("WithOverrides() error = %v", err)
	}
	if e.WordsPerMinute != 180 || e.SpeedMultiplier != 0.85 {
		t.Errorf("WithOverrides() = %+v", e)
	}
	if base.WordsPerMinute != 150 {
		t.Error("WithOverrides() modified the receiver")
	}

	if _, err := base.WithOverrides(float64Ptr(0), nil); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("WithOverrides(0) error = %v, want ErrInvalidRate", err)
	}
	if _, err := base.WithOverrides(nil, float64Ptr(-1)); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("WithOverrides(speed -1) error = %v, want ErrInvalidRate", err)
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"Welcome to this home.\nThe kitchen  has granite counters.", 9},
	}
	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
