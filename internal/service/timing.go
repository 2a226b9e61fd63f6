package service

import (
	"math"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// DefaultMinPerImageSeconds keeps slides readable when there are many photos
const DefaultMinPerImageSeconds = 2.0

// AllocateTiming splits the narration evenly across the slides.
// perImage = max(floor, ⌊total/count⌋); the remainder is not redistributed,
// so perImage × count may be less than (or, at the floor, more than) total.
func AllocateTiming(totalDuration float64, imageCount int, floor float64) (model.TimingPlan, error) {
	if imageCount <= 0 {
		return model.TimingPlan{}, ErrEmptyImageList
	}
	if floor < 0 {
		floor = 0
	}

	perImage := math.Floor(totalDuration / float64(imageCount))
	if perImage < floor {
		perImage = floor
	}

	return model.TimingPlan{
		TotalDurationSeconds: totalDuration,
		PerImageSeconds:      perImage,
		ImageCount:           imageCount,
	}, nil
}
