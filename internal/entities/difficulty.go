package entities

// Difficulty is the ordered difficulty tier of a bounty.
type Difficulty uint32

// Difficulty tiers, ordered None < Novice < ... < Legendary.
const (
	DifficultyNone Difficulty = iota
	DifficultyNovice
	DifficultyApprentice
	DifficultyAdept
	DifficultyExpert
	DifficultyMaster
	DifficultyLegendary
)

// Difficulties lists the six named tiers in ascending order.
var Difficulties = []Difficulty{
	DifficultyNovice,
	DifficultyApprentice,
	DifficultyAdept,
	DifficultyExpert,
	DifficultyMaster,
	DifficultyLegendary,
}

var difficultyNames = map[Difficulty]string{
	DifficultyNone:       "None",
	DifficultyNovice:     "Novice",
	DifficultyApprentice: "Apprentice",
	DifficultyAdept:      "Adept",
	DifficultyExpert:     "Expert",
	DifficultyMaster:     "Master",
	DifficultyLegendary:  "Legendary",
}

// String returns the canonical spelling of the tier
func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return difficultyNames[DifficultyNone]
}

// Valid reports whether d is one of the six named tiers
func (d Difficulty) Valid() bool {
	return d >= DifficultyNovice && d <= DifficultyLegendary
}

// TextSlot keys the display-text table loaded from Texts.json.
type TextSlot uint8

// Text slots
const (
	TextObjective TextSlot = iota
	TextNovice
	TextApprentice
	TextAdept
	TextExpert
	TextMaster
	TextLegendary
)

// TextSlotFor returns the label slot of a difficulty tier
func TextSlotFor(d Difficulty) (TextSlot, bool) {
	if !d.Valid() {
		return TextObjective, false
	}
	return TextSlot(d), true
}
