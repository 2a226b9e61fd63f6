package service

import (
	"sort"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// MergeSequence arranges classified photos to follow the narration's
// category order. Each category bucket is sorted by confidence descending
// (ties keep input order); buckets the order does not name follow in order
// of first appearance in the input. Every input image appears exactly once.
func MergeSequence(images []model.ImageClassification, order model.CategoryOrder) []model.ArrangedImage {
	buckets := make(map[model.RoomCategory][]model.ImageClassification)
	firstSeen := make([]model.RoomCategory, 0)
	for _, img := range images {
		if _, ok := buckets[img.RoomCategory]; !ok {
			firstSeen = append(firstSeen, img.RoomCategory)
		}
		buckets[img.RoomCategory] = append(buckets[img.RoomCategory], img)
	}

	// Sort by confidence descending
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Confidence > bucket[j].Confidence
		})
	}

	arranged := make([]model.ArrangedImage, 0, len(images))
	emit := func(category model.RoomCategory) {
		bucket, ok := buckets[category]
		if !ok {
			return
		}
		for _, img := range bucket {
			arranged = append(arranged, model.ArrangedImage{
				ImageClassification: img,
				SequenceIndex:       len(arranged),
			})
		}
		delete(buckets, category)
	}

	for _, category := range order.Categories {
		emit(category)
	}
	for _, category := range firstSeen {
		emit(category)
	}

	return arranged
}

// CountFallbacks returns how many images were degraded by the classifier
func CountFallbacks(images []model.ImageClassification) int {
	n := 0
	for _, img := range images {
		if img.Fallback {
			n++
		}
	}
	return n
}
