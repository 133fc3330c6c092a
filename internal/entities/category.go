package entities

// Category is the enemy faction a bounty targets.
type Category uint32

// Categories. None acts as a wildcard in selection.
const (
	CategoryNone Category = iota
	CategoryBandit
	CategoryDragon
	CategoryDraugr
	CategoryDwarven
	CategoryFalmer
	CategoryForsworn
	CategoryGiant
	CategoryMage
	CategoryReaver
	CategoryRiekling
	CategoryVampire
)

// Categories lists the eleven named categories in id order.
var Categories = []Category{
	CategoryBandit,
	CategoryDragon,
	CategoryDraugr,
	CategoryDwarven,
	CategoryFalmer,
	CategoryForsworn,
	CategoryGiant,
	CategoryMage,
	CategoryReaver,
	CategoryRiekling,
	CategoryVampire,
}

var categoryNames = map[Category]string{
	CategoryNone:     "None",
	CategoryBandit:   "Bandit",
	CategoryDragon:   "Dragon",
	CategoryDraugr:   "Draugr",
	CategoryDwarven:  "Dwarven",
	CategoryFalmer:   "Falmer",
	CategoryForsworn: "Forsworn",
	CategoryGiant:    "Giant",
	CategoryMage:     "Mage",
	CategoryReaver:   "Reaver",
	CategoryRiekling: "Riekling",
	CategoryVampire:  "Vampire",
}

// String returns the canonical spelling of the category
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryNone]
}

// Valid reports whether c is None or one of the eleven named categories
func (c Category) Valid() bool {
	return c <= CategoryVampire
}

// Matches reports whether a quest of category c satisfies the filter.
// A None filter matches every category.
func (c Category) Matches(filter Category) bool {
	return filter == CategoryNone || c == filter
}
