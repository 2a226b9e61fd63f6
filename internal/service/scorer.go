package service

import (
	"regexp"
	"strings"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// ScriptScorer infers which rooms a narration talks about from keyword hits
type ScriptScorer struct {
	order    []model.RoomCategory
	matchers map[model.RoomCategory][]*regexp.Regexp
}

// NewScriptScorer compiles a whole-word matcher for every keyword in the table.
// Plural "s"/"es" suffixes are tolerated and multi-word keywords match across
// any run of whitespace.
func NewScriptScorer(table model.CategoryTable) *ScriptScorer {
	s := &ScriptScorer{
		order:    ensureForcedCategories(table.Order),
		matchers: make(map[model.RoomCategory][]*regexp.Regexp, len(table.Keywords)),
	}

	for category, keywords := range table.Keywords {
		for _, kw := range keywords {
			if re := compileKeyword(kw); re != nil {
				s.matchers[category] = append(s.matchers[category], re)
			}
		}
	}

	return s
}

func compileKeyword(keyword string) *regexp.Regexp {
	parts := strings.Fields(strings.ToLower(keyword))
	if len(parts) == 0 {
		return nil
	}
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`\b` + strings.Join(parts, `\s+`) + `(?:s|es)?\b`)
}

// ensureForcedCategories makes sure the opening shot and the catch-all
// category are present in an order
func ensureForcedCategories(order []model.RoomCategory) []model.RoomCategory {
	out := make([]model.RoomCategory, 0, len(order)+2)
	hasFront, hasOther := false, false
	for _, c := range order {
		hasFront = hasFront || c == model.ExteriorFront
		hasOther = hasOther || c == model.Other
	}
	if !hasFront {
		out = append(out, model.ExteriorFront)
	}
	out = append(out, order...)
	if !hasOther {
		out = append(out, model.Other)
	}
	return out
}

// Score counts keyword occurrences per category. Only categories with at
// least one hit are present in the result.
func (s *ScriptScorer) Score(text string) map[model.RoomCategory]int {
	scores := make(map[model.RoomCategory]int)
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return scores
	}

	for category, matchers := range s.matchers {
		total := 0
		for _, re := range matchers {
			total += len(re.FindAllStringIndex(lower, -1))
		}
		if total > 0 {
			scores[category] = total
		}
	}

	return scores
}

// Analyze returns the canonical order restricted to the categories the
// narration mentions, always keeping exterior_front and other
func (s *ScriptScorer) Analyze(text string) model.CategoryOrder {
	scores := s.Score(text)

	seen := make(map[model.RoomCategory]bool, len(s.order))
	categories := make([]model.RoomCategory, 0, len(s.order))
	for _, c := range s.order {
		if seen[c] {
			continue
		}
		if scores[c] > 0 || c == model.ExteriorFront || c == model.Other {
			categories = append(categories, c)
			seen[c] = true
		}
	}

	return model.CategoryOrder{
		Categories: categories,
		Scores:     scores,
	}
}
