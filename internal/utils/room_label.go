package utils

import (
	"strings"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// roomAliases maps free-form labels a vision model tends to produce onto
// the closed category set
var roomAliases = map[string]model.RoomCategory{
	"front exterior":   model.ExteriorFront,
	"exterior":         model.ExteriorFront,
	"front":            model.ExteriorFront,
	"facade":           model.ExteriorFront,
	"front yard":       model.ExteriorFront,
	"curb":             model.ExteriorFront,
	"entrance":         model.ExteriorFront,
	"back exterior":    model.ExteriorBack,
	"rear exterior":    model.ExteriorBack,
	"patio":            model.ExteriorBack,
	"deck":             model.ExteriorBack,
	"backyard":         model.Yard,
	"back yard":        model.Yard,
	"garden":           model.Yard,
	"lawn":             model.Yard,
	"living":           model.LivingRoom,
	"living area":      model.LivingRoom,
	"family room":      model.LivingRoom,
	"great room":       model.LivingRoom,
	"lounge":           model.LivingRoom,
	"den":              model.LivingRoom,
	"dining":           model.DiningRoom,
	"dining area":      model.DiningRoom,
	"breakfast nook":   model.DiningRoom,
	"primary bedroom":  model.MasterBedroom,
	"primary suite":    model.MasterBedroom,
	"master":           model.MasterBedroom,
	"master suite":     model.MasterBedroom,
	"owner's suite":    model.MasterBedroom,
	"guest bedroom":    model.Bedroom,
	"guest room":       model.Bedroom,
	"kids room":        model.Bedroom,
	"nursery":          model.Bedroom,
	"bath":             model.Bathroom,
	"primary bathroom": model.Bathroom,
	"master bathroom":  model.Bathroom,
	"ensuite":          model.Bathroom,
	"powder room":      model.Bathroom,
	"swimming pool":    model.Pool,
	"spa":              model.Pool,
	"hot tub":          model.Pool,
	"carport":          model.Garage,
	"parking":          model.Garage,
	"kitchenette":      model.Kitchen,
	"laundry":          model.Other,
	"office":           model.Other,
	"unknown":          model.Other,
}

// NormalizeRoomLabel maps a vision label onto a RoomCategory.
// Exact category names win, then exact aliases, then the longest
// category name or alias found as whole words in the label. Anything
// else is Other.
func NormalizeRoomLabel(label string) model.RoomCategory {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")
	if normalized == "" {
		return model.Other
	}

	// Exact match on the category name
	if c := model.RoomCategory(strings.ReplaceAll(normalized, " ", "_")); c.IsValid() {
		return c
	}

	if c, ok := roomAliases[normalized]; ok {
		return c
	}

	// Whole-word contains match over category names and aliases, longest
	// phrase first so "primary bedroom suite" beats "bedroom"
	padded := " " + normalized + " "
	var best model.RoomCategory
	bestPhrase := ""
	consider := func(phrase string, c model.RoomCategory) {
		if !strings.Contains(padded, " "+phrase+" ") {
			return
		}
		if len(phrase) > len(bestPhrase) || (len(phrase) == len(bestPhrase) && phrase < bestPhrase) {
			best, bestPhrase = c, phrase
		}
	}
	for _, c := range model.AllCategories {
		consider(strings.ReplaceAll(string(c), "_", " "), c)
	}
	for alias, c := range roomAliases {
		consider(alias, c)
	}
	if bestPhrase != "" {
		return best
	}

	return model.Other
}

// NormalizeFeatures lowercases, trims and de-duplicates feature tags,
// keeping first-seen order
func NormalizeFeatures(features []string) []string {
	seen := make(map[string]bool, len(features))
	out := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.Join(strings.Fields(strings.ToLower(f)), " ")
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
