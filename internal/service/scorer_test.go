package service

import (
	"reflect"
	"testing"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

func TestScriptScorer_Score(t *testing.T) {
	scorer := NewScriptScorer(model.CategoryTable{
		Order: []model.RoomCategory{model.ExteriorFront, model.Kitchen, model.Bathroom, model.Other},
		Keywords: map[model.RoomCategory][]string{
			model.Kitchen:  {"kitchen", "granite", "counter"},
			model.Bathroom: {"bath"},
		},
	})

	tests := []struct {
		name string
		text string
		want map[model.RoomCategory]int
	}{
		{
			name: "counts every occurrence",
			text: "The kitchen has granite counters. Another kitchen downstairs.",
			want: map[model.RoomCategory]int{model.Kitchen: 4},
		},
		{
			name: "case insensitive",
			text: "KITCHEN and Granite",
			want: map[model.RoomCategory]int{model.Kitchen: 2},
		},
		{
			name: "whole words only",
			text: "A spacious bathroom and a bathtub",
			want: map[model.RoomCategory]int{},
		},
		{
			name: "plurals and decimals",
			text: "3.5 baths and two baths.",
			want: map[model.RoomCategory]int{model.Bathroom: 2},
		},
		{
			name: "empty",
			text: "",
			want: map[model.RoomCategory]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScriptScorer_MultiWordKeywords(t *testing.T) {
	scorer := NewScriptScorer(model.CategoryTable{
		Order:    []model.RoomCategory{model.ExteriorFront, model.LivingRoom, model.Other},
		Keywords: map[model.RoomCategory][]string{model.LivingRoom: {"living room"}},
	})

	got := scorer.Score("Two living  rooms, plus a living\nroom upstairs. Livingroom is not one.")
	if got[model.LivingRoom] != 2 {
		t.Errorf("Score()[living_room] = %d, want 2", got[model.LivingRoom])
	}
}

func TestScriptScorer_Analyze(t *testing.T) {
	scorer := NewScriptScorer(model.DefaultCategoryTable())

	tests := []struct {
		name string
		text string
		want []model.RoomCategory
	}{
		{
			name: "listing narration",
			text: "Welcome to this home. The kitchen has granite counters. Schedule a tour today.",
			want: []model.RoomCategory{model.ExteriorFront, model.Kitchen, model.Other},
		},
		{
			name: "canonical order, not score order",
			text: "Pool, pool, pool and a pool. There is also a fireplace.",
			want: []model.RoomCategory{model.ExteriorFront, model.LivingRoom, model.Pool, model.Other},
		},
		{
			name: "empty narration keeps forced categories",
			text: "",
			want: []model.RoomCategory{model.ExteriorFront, model.Other},
		},
		{
			name: "no keywords",
			text: "Call us today!",
			want: []model.RoomCategory{model.ExteriorFront, model.Other},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Analyze(tt.text)
			if !reflect.DeepEqual(got.Categories, tt.want) {
				t.Errorf("Analyze().Categories = %v, want %v", got.Categories, tt.want)
			}
		})
	}
}

func TestScriptScorer_ForcedCategoriesMissingFromTable(t *testing.T) {
	scorer := NewScriptScorer(model.CategoryTable{
		Order:    []model.RoomCategory{model.Kitchen},
		Keywords: map[model.RoomCategory][]string{model.Kitchen: {"kitchen"}},
	})

	got := scorer.Analyze("a kitchen")
	want := []model.RoomCategory{model.ExteriorFront, model.Kitchen, model.Other}
	if !reflect.DeepEqual(got.Categories, want) {
		t.Errorf("Analyze().Categories = %v, want %v", got.Categories, want)
	}

	if got := scorer.Analyze(""); !got.Contains(model.ExteriorFront) || !got.Contains(model.Other) {
		t.Errorf("Analyze(\"\") = %v, want forced categories", got.Categories)
	}
}

func TestScriptScorer_Deterministic(t *testing.T) {
	scorer := NewScriptScorer(model.DefaultCategoryTable())
	text := "Primary suite with a spa bath, a chef's kitchen, and a fenced yard with a pool."

	first := scorer.Analyze(text)
	for i := 0; i < 20; i++ {
		if got := scorer.Analyze(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Analyze() not deterministic: %v vs %v", got, first)
		}
	}
}
