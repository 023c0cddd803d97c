package metadata

import (
	"fmt"
	"strings"
)

// Category groups tilesets by the scenery they draw.
type Category uint8

// Known categories.
const (
	CategoryNone Category = iota
	CategoryCommon
	CategoryGrassland
	CategoryUnderground
	CategoryDesert
	CategorySnow
	CategoryBeach
	CategoryForest
	CategoryMountain
	CategorySky
	CategoryWater
	CategoryCastle
	CategoryGhostHouse
	CategoryAirship
	CategoryLava
	CategoryOther
	numCategories
)

var categoryNames = [numCategories]string{
	"none",
	"common",
	"grassland",
	"underground",
	"desert",
	"snow",
	"beach",
	"forest",
	"mountain",
	"sky",
	"water",
	"castle",
	"ghost-house",
	"airship",
	"lava",
	"other",
}

func (c Category) valid() bool {
	return c < numCategories
}

func (c Category) String() string {
	if c.valid() {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// ParseCategory returns the category with the given name, ignoring case.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}
	return CategoryNone, fmt.Errorf("%w: unknown category %q", ErrInvalid, s)
}
