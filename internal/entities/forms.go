package entities

// DefaultPluginFile is the plugin that owns the module's fixed forms.
const DefaultPluginFile = "Bounty Quests Redone - NG.esl"

// PluginForms holds the plugin-local ids of the forms the module relies on.
// Ids local to PluginFile are resolved through the host; the base-game ids
// (note model, pickup sound, boss and map-marker ref types) are runtime ids.
type PluginForms struct {
	PluginFile string

	AliasGenerator FormID
	Catalogue      FormID
	MenuNPC        FormID
	RegionHas      map[Category]FormID

	NoteModel       FormID
	NotePickupSound FormID
	BossRefType     FormID
	MapMarkerType   FormID
}

// DefaultPluginForms returns the ids shipped with the plugin
func DefaultPluginForms() PluginForms {
	return PluginForms{
		PluginFile:     DefaultPluginFile,
		AliasGenerator: 0x10004B,
		Catalogue:      0x110000,
		MenuNPC:        0x100027,
		RegionHas: map[Category]FormID{
			CategoryBandit:   0x111000,
			CategoryDragon:   0x111001,
			CategoryDraugr:   0x111002,
			CategoryDwarven:  0x111003,
			CategoryFalmer:   0x111004,
			CategoryForsworn: 0x111005,
			CategoryGiant:    0x111006,
			CategoryMage:     0x111007,
			CategoryReaver:   0x111008,
			CategoryRiekling: 0x111009,
			CategoryVampire:  0x111010,
		},
		NoteModel:       0x1541C,
		NotePickupSound: 0xC7A55,
		BossRefType:     0x130F7,
		MapMarkerType:   0x10F63C,
	}
}
