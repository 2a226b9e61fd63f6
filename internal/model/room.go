package model

// RoomCategory is one of the fixed room categories a listing photo can belong to
type RoomCategory string

// Room categories
const (
	ExteriorFront RoomCategory = "exterior_front"
	ExteriorBack  RoomCategory = "exterior_back"
	Kitchen       RoomCategory = "kitchen"
	LivingRoom    RoomCategory = "living_room"
	DiningRoom    RoomCategory = "dining_room"
	MasterBedroom RoomCategory = "master_bedroom"
	Bedroom       RoomCategory = "bedroom"
	Bathroom      RoomCategory = "bathroom"
	Garage        RoomCategory = "garage"
	Pool          RoomCategory = "pool"
	Yard          RoomCategory = "yard"
	Other         RoomCategory = "other"
)

// AllCategories lists every category in a fixed order.
// The order is also the layout of the category score vector stored with each run.
var AllCategories = []RoomCategory{
	ExteriorFront,
	ExteriorBack,
	Kitchen,
	LivingRoom,
	DiningRoom,
	MasterBedroom,
	Bedroom,
	Bathroom,
	Garage,
	Pool,
	Yard,
	Other,
}

// IsValid reports whether c belongs to the closed category set
func (c RoomCategory) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryTable is the static configuration the script scorer works from:
// the walkthrough order and the keywords that signal each category.
type CategoryTable struct {
	Order    []RoomCategory
	Keywords map[RoomCategory][]string
}

// DefaultCategoryTable returns the built-in walkthrough order and keyword sets
func DefaultCategoryTable() CategoryTable {
	return CategoryTable{
		Order: []RoomCategory{
			ExteriorFront,
			LivingRoom,
			Kitchen,
			DiningRoom,
			MasterBedroom,
			Bedroom,
			Bathroom,
			ExteriorBack,
			Yard,
			Pool,
			Garage,
			Other,
		},
		Keywords: map[RoomCategory][]string{
			ExteriorFront: {"front", "exterior", "curb appeal", "facade", "porch", "entrance", "entry", "driveway", "street"},
			LivingRoom:    {"living room", "living area", "family room", "great room", "fireplace", "lounge", "den"},
			Kitchen:       {"kitchen", "counter", "countertop", "granite", "quartz", "island", "appliance", "cabinet", "pantry", "chef"},
			DiningRoom:    {"dining", "dinner", "breakfast nook", "eat-in"},
			MasterBedroom: {"master", "primary suite", "primary bedroom", "owner's suite", "walk-in closet"},
			Bedroom:       {"bedroom", "guest room", "nursery", "bunk"},
			Bathroom:      {"bathroom", "bath", "shower", "tub", "vanity", "ensuite"},
			ExteriorBack:  {"rear", "patio", "deck", "pergola", "outdoor living", "back porch"},
			Yard:          {"yard", "backyard", "garden", "lawn", "landscaping", "landscaped", "fenced"},
			Pool:          {"pool", "swimming", "spa", "hot tub", "jacuzzi"},
			Garage:        {"garage", "parking", "carport", "workshop"},
			Other:         {"office", "laundry", "basement", "gym", "loft", "study"},
		},
	}
}

// CategoryOrder is the narration's inferred walkthrough: the canonical order
// restricted to the categories the script talks about plus the mandatory ones.
type CategoryOrder struct {
	Categories []RoomCategory       `json:"categories"`
	Scores     map[RoomCategory]int `json:"scores"`
}

// Contains reports whether the order includes c
func (o CategoryOrder) Contains(c RoomCategory) bool {
	for _, cat := range o.Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// ScoreVector returns the scores laid out in AllCategories order
func (o CategoryOrder) ScoreVector() []float32 {
	vec := make([]float32, len(AllCategories))
	for i, c := range AllCategories {
		vec[i] = float32(o.Scores[c])
	}
	return vec
}
