package testutils

import (
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
)

// Base game plugin of the fixture world
const BaseGameFile = "Skyrim.esm"

// Runtime ids of the fixture world
const (
	Whiterun  entities.FormID = 0x00016770
	Falkreath entities.FormID = 0x00016771
	// WhiterunCity is an untracked child of Whiterun where the player stands
	WhiterunCity entities.FormID = 0x00018A56

	Embershard     entities.FormID = 0x00018C90 // Bandit, Novice
	Halted         entities.FormID = 0x00018C91 // Bandit, Apprentice
	SilentMoons    entities.FormID = 0x00018C92 // Bandit, Adept
	Bonestrewn     entities.FormID = 0x00018C93 // Dragon, Expert
	AncientsAscent entities.FormID = 0x00018C94 // Dragon, Master
	Bloated        entities.FormID = 0x00018C95 // Draugr in Falkreath, Legendary

	GeneratorQuest entities.FormID = 0xFE00104B
	CatalogueQuest entities.FormID = 0xFE001100
	BountyQuest    entities.FormID = 0xFE001200
	MenuNPC        entities.FormID = 0xFE001027

	WhiterunTracker  entities.FormID = 0xFE001300
	FalkreathTracker entities.FormID = 0xFE001301

	Gold entities.FormID = 0x0000000F

	// first actor id; bosses follow the location order above
	FirstBoss entities.FormID = 0x0010A000
)

// Plugin-local ids of the fixture's plugin forms
const (
	LocalBountyQuest      entities.FormID = 0x120000
	LocalWhiterunTracker  entities.FormID = 0x112000
	LocalFalkreathTracker entities.FormID = 0x112001
)

// BountyAliases is the number of reference aliases of the bounty quest
const BountyAliases = 8

// AddedToInventory is the fixture value of the inventory notification
const AddedToInventory = "Added to inventory:"

// BountyLocation describes one bounty of the fixture world
type BountyLocation struct {
	ID         entities.FormID
	Name       string
	Region     entities.FormID
	Category   entities.Category
	Difficulty entities.Difficulty
}

// BountyLocations lists the fixture bounties in definition order
var BountyLocations = []BountyLocation{
	{Embershard, "Embershard Mine", Whiterun, entities.CategoryBandit, entities.DifficultyNovice},
	{Halted, "Halted Stream Camp", Whiterun, entities.CategoryBandit, entities.DifficultyApprentice},
	{SilentMoons, "Silent Moons Camp", Whiterun, entities.CategoryBandit, entities.DifficultyAdept},
	{Bonestrewn, "Bonestrewn Crest", Whiterun, entities.CategoryDragon, entities.DifficultyExpert},
	{AncientsAscent, "Ancient's Ascent", Whiterun, entities.CategoryDragon, entities.DifficultyMaster},
	{Bloated, "Bloated Man's Grotto", Falkreath, entities.CategoryDraugr, entities.DifficultyLegendary},
}

// BountyWorld is a simulated host populated with two tracked regions, six
// bounty locations each guarded by a boss, and the plugin's fixed forms
type BountyWorld struct {
	World *sim.World
	// Forms holds the runtime ids of the plugin forms
	Forms entities.PluginForms
}

// NewBountyWorld builds the fixture world
func NewBountyWorld() *BountyWorld {
	w := sim.New()
	forms := entities.DefaultPluginForms()
	plugin := forms.PluginFile

	base := func(id entities.FormID) entities.FormRef {
		return entities.FormRef{ID: id, File: BaseGameFile}
	}
	local := func(id entities.FormID) entities.FormRef {
		return entities.FormRef{ID: id, File: plugin}
	}

	w.AddLocation(Whiterun, entities.NoForm, "Whiterun Hold")
	w.AddLocation(Falkreath, entities.NoForm, "Falkreath Hold")
	w.AddLocation(WhiterunCity, Whiterun, "Whiterun")
	w.Register(base(Whiterun), Whiterun, entities.FormLocation, "Whiterun Hold")
	w.Register(base(Falkreath), Falkreath, entities.FormLocation, "Falkreath Hold")

	for i, b := range BountyLocations {
		w.AddLocation(b.ID, b.Region, b.Name)
		w.Register(base(b.ID), b.ID, entities.FormLocation, b.Name)
		w.AddActor(sim.Actor{
			ID:       FirstBoss + entities.FormID(i),
			Name:     b.Name + " Boss",
			Location: b.ID,
			RefType:  forms.BossRefType,
		})
		marker := 0x0010B000 + entities.FormID(i)
		if i == 0 {
			w.SetWorldMarker(b.ID, marker)
		} else {
			w.SetSpecialRef(b.ID, forms.MapMarkerType, marker)
		}
	}

	w.AddQuest(GeneratorQuest, []host.Alias{
		{ID: 0, Kind: host.AliasLocation},
		{ID: 1, Kind: host.AliasReference},
	})
	w.Register(local(forms.AliasGenerator), GeneratorQuest, entities.FormQuest, "")
	w.AddQuest(CatalogueQuest, []host.Alias{{ID: 0, Kind: host.AliasLocation}})
	w.Register(local(forms.Catalogue), CatalogueQuest, entities.FormQuest, "")

	aliases := make([]host.Alias, 0, BountyAliases)
	objectives := []uint16{0}
	for id := uint32(1); id <= BountyAliases; id++ {
		aliases = append(aliases, host.Alias{ID: id, Kind: host.AliasReference})
		objectives = append(objectives, uint16(id))
	}
	w.AddQuest(BountyQuest, aliases, objectives...)
	w.Register(local(LocalBountyQuest), BountyQuest, entities.FormQuest, "")

	w.AddActor(sim.Actor{ID: MenuNPC, Name: "Bounty Board"})
	w.Register(local(forms.MenuNPC), MenuNPC, entities.FormActor, "Bounty Board")

	runtimeForms := forms
	runtimeForms.AliasGenerator = GeneratorQuest
	runtimeForms.Catalogue = CatalogueQuest
	runtimeForms.MenuNPC = MenuNPC
	runtimeForms.RegionHas = make(map[entities.Category]entities.FormID, len(forms.RegionHas))
	for category, id := range forms.RegionHas {
		global := 0xFE000000 | id&0xFFFF
		w.DefineGlobal(global, 0)
		w.Register(local(id), global, entities.FormGlobal, "")
		runtimeForms.RegionHas[category] = global
	}

	w.DefineGlobal(WhiterunTracker, 0)
	w.Register(local(LocalWhiterunTracker), WhiterunTracker, entities.FormGlobal, "")
	w.DefineGlobal(FalkreathTracker, 0)
	w.Register(local(LocalFalkreathTracker), FalkreathTracker, entities.FormGlobal, "")

	w.Register(base(Gold), Gold, entities.FormItem, "Gold")
	w.SetGameSetting("sAddItemtoInventory", AddedToInventory)
	w.MovePlayer(WhiterunCity)

	return &BountyWorld{World: w, Forms: runtimeForms}
}

// Boss returns the boss actor guarding the i-th fixture location
func (b *BountyWorld) Boss(i int) entities.FormID {
	return FirstBoss + entities.FormID(i)
}

// Definitions creates one note per fixture bounty and returns the
// definitions the loader would produce for them
func (b *BountyWorld) Definitions() []*entities.QuestDefinition {
	defs := make([]*entities.QuestDefinition, 0, len(BountyLocations))
	for _, loc := range BountyLocations {
		note, err := b.World.CreateNote(host.NoteSpec{
			Name:        loc.Difficulty.String() + " - " + loc.Name,
			Model:       b.Forms.NoteModel,
			PickupSound: b.Forms.NotePickupSound,
		})
		if err != nil {
			panic(err)
		}
		defs = append(defs, &entities.QuestDefinition{
			Name:       loc.Name,
			Difficulty: loc.Difficulty,
			Category:   loc.Category,
			Quest:      BountyQuest,
			Location:   loc.ID,
			Region:     loc.Region,
			Note:       note,
			Source:     "fixture",
		})
	}
	return defs
}

// Trackers returns one tracker per fixture region
func (b *BountyWorld) Trackers() []*entities.RegionTracker {
	return []*entities.RegionTracker{
		{Global: WhiterunTracker, Region: Whiterun},
		{Global: FalkreathTracker, Region: Falkreath},
	}
}

// GoldReward pays quantity[tier] gold per completed bounty of the tier
func GoldReward(quantity map[entities.Difficulty]uint32) *entities.RewardRule {
	return &entities.RewardRule{
		Item:     entities.FormRef{ID: Gold, File: BaseGameFile},
		Quantity: quantity,
	}
}
