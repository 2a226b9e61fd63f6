package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// categoryTableFile is the TOML layout of a category table override:
//
//	order = ["exterior_front", "kitchen", "other"]
//
//	[keywords]
//	kitchen = ["kitchen", "island", "range hood"]
type categoryTableFile struct {
	Order    []string            `toml:"order"`
	Keywords map[string][]string `toml:"keywords"`
}

// LoadCategoryTable reads a category table override. An empty path or a
// missing file yields the built-in table. Keyword lists in the file replace
// the built-in list for that category; an empty order keeps the built-in order.
func LoadCategoryTable(path string) (model.CategoryTable, error) {
	table := model.DefaultCategoryTable()
	if path == "" {
		return table, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return table, nil
	}

	var file categoryTableFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return table, fmt.Errorf("failed to decode category table %s: %w", path, err)
	}

	if len(file.Order) > 0 {
		order := make([]model.RoomCategory, 0, len(file.Order))
		for _, name := range file.Order {
			c := model.RoomCategory(name)
			if !c.IsValid() {
				return table, fmt.Errorf("category table %s: unknown category %q in order", path, name)
			}
			order = append(order, c)
		}
		table.Order = order
	}

	for name, keywords := range file.Keywords {
		c := model.RoomCategory(name)
		if !c.IsValid() {
			return table, fmt.Errorf("category table %s: unknown category %q in keywords", path, name)
		}
		table.Keywords[c] = keywords
	}

	return table, nil
}
