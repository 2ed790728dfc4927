package shape

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Category classifies a shape for display and compliance.
type Category int

const (
	CategorySite Category = iota
	CategoryBuilding
	CategoryDriveway
	CategoryPatio
	CategoryImpervious
	CategoryPervious

	numCategories
)

// Class is the role a category plays in the coverage calculation.
type Class int

const (
	ClassIgnored Class = iota
	ClassSite
	ClassImpervious
)

// DefaultColor is used for any value outside the enumeration.
const DefaultColor = "#000000"

type categoryInfo struct {
	name  string
	label string
	color string
	class Class
}

// Indexed by Category; the array length fails to compile if a category is
// added without an entry.
var categoryTable = [numCategories]categoryInfo{
	CategorySite:       {"site", "Site boundary", "#0070c0", ClassSite},
	CategoryBuilding:   {"building", "Building / Addition", "#c00000", ClassImpervious},
	CategoryDriveway:   {"driveway", "Driveway", "#808080", ClassImpervious},
	CategoryPatio:      {"patio", "Patio / Deck", "#c09040", ClassImpervious},
	CategoryImpervious: {"impervious", "Other impervious", "#aa5500", ClassImpervious},
	CategoryPervious:   {"pervious", "Pervious / Landscape", "#00a000", ClassIgnored},
}

// Categories returns every category in legend order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

func (c Category) info() (categoryInfo, bool) {
	if c < 0 || c >= numCategories {
		return categoryInfo{}, false
	}
	return categoryTable[c], true
}

// ParseCategory maps a form value such as "driveway" to a Category.
func ParseCategory(s string) (Category, bool) {
	for i, info := range categoryTable {
		if info.name == s {
			return Category(i), true
		}
	}
	return 0, false
}

func (c Category) String() string {
	if info, ok := c.info(); ok {
		return info.name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Label is the human-readable legend text.
func (c Category) Label() string {
	if info, ok := c.info(); ok {
		return info.label
	}
	return c.String()
}

// Hex is the display color as "#rrggbb".
func (c Category) Hex() string {
	if info, ok := c.info(); ok {
		return info.color
	}
	return DefaultColor
}

// Color is the display color as a color.Color.
func (c Category) Color() color.Color {
	col, err := colorful.Hex(c.Hex())
	if err != nil {
		return color.Black
	}
	return col
}

// Class returns the compliance role of the category.
func (c Category) Class() Class {
	if info, ok := c.info(); ok {
		return info.class
	}
	return ClassIgnored
}

func (c Category) MarshalText() ([]byte, error) {
	if _, ok := c.info(); !ok {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, ok := ParseCategory(string(b))
	if !ok {
		return fmt.Errorf("unknown category %q", string(b))
	}
	*c = parsed
	return nil
}
