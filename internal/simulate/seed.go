// Package simulate runs the plugin against a simulated host built from a
// data directory, and replays scripted play sessions on it.
package simulate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
	"github.com/digital-apple/bounty-quests-ng/internal/loader"
)

// BaseGameFile is the master file loaded at index 0
const BaseGameFile = "Skyrim.esm"

// AddedToInventory is the simulated inventory notification prefix
const AddedToInventory = "Added to inventory:"

// firstPlaced is the first id handed to seeded actors and markers
const firstPlaced entities.FormID = 0xFF800000

// Seeded describes the world built from a data directory
type Seeded struct {
	World *sim.World
	// Bosses maps each bounty location to the boss placed in it
	Bosses map[entities.FormID]entities.FormID
	// Regions lists the regions in the order they were found
	Regions []entities.FormID
	// LoadOrder lists the files in load index order
	LoadOrder []string
}

// Resolve returns the runtime id of a plugin reference
func (s *Seeded) Resolve(ref entities.FormRef, kind entities.FormKind) (entities.FormID, error) {
	id, ok := s.World.LookupForm(ref, kind)
	if !ok {
		return entities.NoForm, errors.NotFoundf("%s not found", ref)
	}
	return id, nil
}

type seeder struct {
	world  *sim.World
	forms  entities.PluginForms
	out    *Seeded
	index  map[string]uint32
	known  map[entities.FormID]bool
	quests map[entities.FormID]int
	next   entities.FormID
}

// Seed builds a simulated host holding every form the data directory
// refers to. Each file gets a load index in order of first reference; a
// boss and a map marker are placed in every bounty location, and every
// bounty quest gets one reference alias per bounty that uses it.
func Seed(dir string, forms entities.PluginForms) (*Seeded, error) {
	s := &seeder{
		world:  sim.New(),
		forms:  forms,
		out:    &Seeded{Bosses: make(map[entities.FormID]entities.FormID)},
		index:  make(map[string]uint32),
		known:  make(map[entities.FormID]bool),
		quests: make(map[entities.FormID]int),
		next:   firstPlaced,
	}
	s.out.World = s.world
	s.runtimeID(entities.FormRef{File: BaseGameFile})

	s.seedPluginForms()

	files, err := filepath.Glob(filepath.Join(dir, "Quests", "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list quest files")
	}
	if len(files) == 0 {
		return nil, errors.NotFoundf("no quest files in %s", filepath.Join(dir, "Quests"))
	}
	sort.Strings(files)
	for _, path := range files {
		if err := s.seedQuests(path); err != nil {
			slog.Warn("Skipping quest file", "file", path, "error", err)
		}
	}
	s.seedBountyQuests()

	if err := s.seedTrackers(filepath.Join(dir, "Trackers.json")); err != nil {
		slog.Warn("Trackers not seeded", "error", err)
	}
	if err := s.seedRewards(filepath.Join(dir, "Rewards.json")); err != nil {
		slog.Warn("Rewards not seeded", "error", err)
	}

	s.world.SetGameSetting("sAddItemtoInventory", AddedToInventory)
	if len(s.out.Regions) > 0 {
		s.world.MovePlayer(s.out.Regions[0])
	}

	slog.Info("Seeded simulated world",
		"files", len(s.out.LoadOrder),
		"regions", len(s.out.Regions),
		"locations", len(s.out.Bosses),
		"quests", len(s.quests),
	)
	return s.out, nil
}

// runtimeID places a file-local id at the file's load index
func (s *seeder) runtimeID(ref entities.FormRef) entities.FormID {
	file := strings.ToLower(ref.File)
	idx, ok := s.index[file]
	if !ok {
		idx = uint32(len(s.index))
		s.index[file] = idx
		s.out.LoadOrder = append(s.out.LoadOrder, ref.File)
	}
	return entities.FormID(idx<<24 | uint32(ref.ID)&0x00FFFFFF)
}

func (s *seeder) place() entities.FormID {
	id := s.next
	s.next++
	return id
}

func (s *seeder) register(ref entities.FormRef, kind entities.FormKind, name string) entities.FormID {
	id := s.runtimeID(ref)
	s.world.Register(ref, id, kind, name)
	return id
}

func (s *seeder) seedPluginForms() {
	local := func(id entities.FormID) entities.FormRef {
		return entities.FormRef{ID: id, File: s.forms.PluginFile}
	}

	gen := s.runtimeID(local(s.forms.AliasGenerator))
	s.world.AddQuest(gen, []host.Alias{
		{ID: 0, Kind: host.AliasLocation},
		{ID: 1, Kind: host.AliasReference},
	})
	s.world.Register(local(s.forms.AliasGenerator), gen, entities.FormQuest, "")

	catalogue := s.runtimeID(local(s.forms.Catalogue))
	s.world.AddQuest(catalogue, []host.Alias{{ID: 0, Kind: host.AliasLocation}})
	s.world.Register(local(s.forms.Catalogue), catalogue, entities.FormQuest, "")

	npc := s.runtimeID(local(s.forms.MenuNPC))
	s.world.AddActor(sim.Actor{ID: npc, Name: "Bounty Board"})
	s.world.Register(local(s.forms.MenuNPC), npc, entities.FormActor, "Bounty Board")

	for _, id := range s.forms.RegionHas {
		global := s.runtimeID(local(id))
		s.world.DefineGlobal(global, 0)
		s.world.Register(local(id), global, entities.FormGlobal, "")
	}
}

func (s *seeder) region(ref entities.FormRef) entities.FormID {
	id := s.runtimeID(ref)
	if !s.known[id] {
		s.known[id] = true
		name := fmt.Sprintf("Region %s", id)
		s.world.AddLocation(id, entities.NoForm, name)
		s.world.Register(ref, id, entities.FormLocation, name)
		s.out.Regions = append(s.out.Regions, id)
	}
	return id
}

func (s *seeder) seedQuests(path string) error {
	doc, err := readJSON(path)
	if err != nil {
		return err
	}

	doc.Get("Quests").ForEach(func(_, entry gjson.Result) bool {
		name := entry.Get("LocationName").String()
		regionRef, err := loader.ParseFormRef(entry.Get("Region"))
		if err != nil {
			slog.Warn("Skipping entry without region", "name", name, "error", err)
			return true
		}
		locRef, err := loader.ParseFormRef(entry.Get("Location"))
		if err != nil {
			slog.Warn("Skipping entry without location", "name", name, "error", err)
			return true
		}
		questRef, err := loader.ParseFormRef(entry.Get("Quest"))
		if err != nil {
			slog.Warn("Skipping entry without quest", "name", name, "error", err)
			return true
		}

		region := s.region(regionRef)

		loc := s.runtimeID(locRef)
		if !s.known[loc] {
			s.known[loc] = true
			s.world.AddLocation(loc, region, name)
			s.world.Register(locRef, loc, entities.FormLocation, name)

			boss := s.place()
			s.world.AddActor(sim.Actor{
				ID:       boss,
				Name:     name + " Boss",
				Location: loc,
				RefType:  s.forms.BossRefType,
			})
			s.out.Bosses[loc] = boss
			s.world.SetSpecialRef(loc, s.forms.MapMarkerType, s.place())
		}

		quest := s.runtimeID(questRef)
		if _, ok := s.quests[quest]; !ok {
			s.world.Register(questRef, quest, entities.FormQuest, "")
		}
		s.quests[quest]++
		return true
	})
	return nil
}

// seedBountyQuests declares each bounty quest once its bounty count is known
func (s *seeder) seedBountyQuests() {
	for quest, count := range s.quests {
		aliases := make([]host.Alias, 0, count)
		objectives := []uint16{0}
		for i := 1; i <= count; i++ {
			aliases = append(aliases, host.Alias{ID: uint32(i), Kind: host.AliasReference})
			objectives = append(objectives, uint16(i))
		}
		s.world.AddQuest(quest, aliases, objectives...)
	}
}

func (s *seeder) seedTrackers(path string) error {
	doc, err := readJSON(path)
	if err != nil {
		return err
	}
	doc.Get("Trackers").ForEach(func(_, entry gjson.Result) bool {
		globalRef, err := loader.ParseFormRef(entry.Get("GlobalVariable"))
		if err != nil {
			return true
		}
		regionRef, err := loader.ParseFormRef(entry.Get("Region"))
		if err != nil {
			return true
		}
		global := s.runtimeID(globalRef)
		s.world.DefineGlobal(global, 0)
		s.world.Register(globalRef, global, entities.FormGlobal, "")
		s.region(regionRef)
		return true
	})
	return nil
}

func (s *seeder) seedRewards(path string) error {
	doc, err := readJSON(path)
	if err != nil {
		return err
	}
	doc.Get("Rewards").ForEach(func(_, entry gjson.Result) bool {
		ref, err := loader.ParseFormRef(entry)
		if err != nil {
			return true
		}
		name := entry.Get("Name").String()
		if name == "" {
			name = ref.String()
			if ref.ID == 0xF && strings.EqualFold(ref.File, BaseGameFile) {
				name = "Gold"
			}
		}
		s.register(ref, entities.FormItem, name)
		return true
	})
	return nil
}

func readJSON(path string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, errors.WrapWithCodef(err, errors.CodeNotFound, "failed to read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.InvalidArgumentf("%s is not valid JSON", path)
	}
	return gjson.ParseBytes(data), nil
}
