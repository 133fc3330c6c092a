// Package loader reads the module's data files into definitions, reward
// rules, trackers and display texts. Entries that do not resolve against the
// host are dropped with a warning; a malformed file is skipped as a whole.
package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/lookup"
)

// Config holds the dependencies of the loader
type Config struct {
	Host   host.Host
	Lookup *lookup.Catalog
	Forms  entities.PluginForms
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Host == nil {
		vb.RequiredField("Host")
	}
	if c.Lookup == nil {
		vb.RequiredField("Lookup")
	}
	return vb.Build()
}

// Loader parses data files
type Loader struct {
	host   host.Host
	lookup *lookup.Catalog
	forms  entities.PluginForms
}

// New creates a loader
func New(cfg *Config) (*Loader, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Loader{host: cfg.Host, lookup: cfg.Lookup, forms: cfg.Forms}, nil
}

// ParseFormID reads a form id written as a JSON number or as a string. A
// string is hexadecimal with a 0x prefix and decimal without one.
func ParseFormID(r gjson.Result) (entities.FormID, error) {
	switch r.Type {
	case gjson.Number:
		v, err := strconv.ParseUint(r.Raw, 10, 32)
		if err != nil {
			return entities.NoForm, errors.InvalidArgumentf("form id %s is not a 32-bit integer", r.Raw)
		}
		return entities.FormID(v), nil
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		base := 10
		if hex, ok := strings.CutPrefix(s, "0x"); ok {
			s, base = hex, 16
		} else if hex, ok := strings.CutPrefix(s, "0X"); ok {
			s, base = hex, 16
		}
		v, err := strconv.ParseUint(s, base, 32)
		if err != nil {
			return entities.NoForm, errors.InvalidArgumentf("form id %q is not a 32-bit integer", r.Str)
		}
		return entities.FormID(v), nil
	default:
		return entities.NoForm, errors.InvalidArgumentf("form id must be a number or a string, got %s", r.Type)
	}
}

// ParseFormRef reads a {"FormID": ..., "ModName": ...} object
func ParseFormRef(r gjson.Result) (entities.FormRef, error) {
	if !r.IsObject() {
		return entities.FormRef{}, errors.InvalidArgument("expected {FormID, ModName}")
	}
	id, err := ParseFormID(r.Get("FormID"))
	if err != nil {
		return entities.FormRef{}, err
	}
	return entities.FormRef{ID: id, File: r.Get("ModName").String()}, nil
}

// readDocument loads a JSON file and returns the array under key
func readDocument(path, key string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return gjson.Result{}, errors.NotFoundf("data file %s not found", path)
		}
		return gjson.Result{}, errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.InvalidArgumentf("%s is not valid JSON", path)
	}

	arr := gjson.GetBytes(data, key)
	if !arr.IsArray() {
		return gjson.Result{}, errors.InvalidArgumentf("%s has no %q array", path, key)
	}
	return arr, nil
}

// ParseQuestDefinitions reads every Quests/*.json file of dir in name order.
// Only an unreadable directory is an error.
func (l *Loader) ParseQuestDefinitions(dir string) ([]*entities.QuestDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeNotFound, "failed to read quest directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var defs []*entities.QuestDefinition
	for _, path := range files {
		arr, err := readDocument(path, "Quests")
		if err != nil {
			slog.Warn("Skipping quest file", "file", path, "error", err)
			continue
		}

		arr.ForEach(func(_, entry gjson.Result) bool {
			def, err := l.parseQuest(entry, path)
			if err != nil {
				slog.Warn("Dropping quest definition",
					"file", path,
					"name", entry.Get("LocationName").String(),
					"error", err,
				)
				return true
			}
			slog.Info("Parsed quest definition",
				"name", def.Name,
				"category", def.Category.String(),
				"difficulty", def.Difficulty.String(),
				"file", path,
			)
			defs = append(defs, def)
			return true
		})
	}

	return defs, nil
}

func (l *Loader) parseQuest(entry gjson.Result, source string) (*entities.QuestDefinition, error) {
	name := entry.Get("LocationName").String()
	if name == "" {
		return nil, errors.InvalidArgument("LocationName is required")
	}

	resolve := func(field string, kind entities.FormKind) (entities.FormID, error) {
		ref, err := ParseFormRef(entry.Get(field))
		if err != nil {
			return entities.NoForm, errors.Wrapf(err, "invalid %s", field)
		}
		id, err := l.lookup.Resolve(ref, kind)
		if err != nil {
			return entities.NoForm, errors.Wrapf(err, "unresolved %s", field)
		}
		return id, nil
	}

	location, err := resolve("Location", entities.FormLocation)
	if err != nil {
		return nil, err
	}
	region, err := resolve("Region", entities.FormLocation)
	if err != nil {
		return nil, err
	}
	quest, err := resolve("Quest", entities.FormQuest)
	if err != nil {
		return nil, err
	}

	difficultyText := entry.Get("Difficulty").String()
	note, err := l.host.CreateNote(host.NoteSpec{
		Name:        NoteName(difficultyText, name),
		Model:       l.forms.NoteModel,
		PickupSound: l.forms.NotePickupSound,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create note")
	}

	return &entities.QuestDefinition{
		Name:       name,
		Difficulty: lookup.ParseDifficulty(difficultyText),
		Category:   lookup.ParseCategory(entry.Get("Type").String()),
		Quest:      quest,
		Location:   location,
		Region:     region,
		Note:       note,
		Source:     source,
	}, nil
}

// NoteName is the display name of a definition's reward note
func NoteName(difficulty, location string) string {
	return difficulty + " - " + location
}

// ParseRewards reads Rewards.json
func (l *Loader) ParseRewards(path string) ([]*entities.RewardRule, error) {
	arr, err := readDocument(path, "Rewards")
	if err != nil {
		return nil, err
	}

	var rules []*entities.RewardRule
	arr.ForEach(func(_, entry gjson.Result) bool {
		id, err := ParseFormID(entry.Get("FormID"))
		if err != nil {
			slog.Warn("Dropping reward rule", "file", path, "error", err)
			return true
		}
		file := entry.Get("ModName").String()
		if file == "" {
			slog.Warn("Dropping reward rule", "file", path, "form", id.String(), "error", "ModName is required")
			return true
		}

		rule := &entities.RewardRule{
			Item:     entities.FormRef{ID: id, File: file},
			Quantity: make(map[entities.Difficulty]uint32, len(entities.Difficulties)),
		}
		quantity := entry.Get("Quantity")
		for _, d := range entities.Difficulties {
			rule.Quantity[d] = uint32(quantity.Get(d.String()).Uint())
		}
		rules = append(rules, rule)
		return true
	})

	return rules, nil
}

// ParseTrackers reads Trackers.json. Trackers that do not resolve or repeat
// an earlier (global, region) pair are dropped.
func (l *Loader) ParseTrackers(path string) ([]*entities.RegionTracker, error) {
	arr, err := readDocument(path, "Trackers")
	if err != nil {
		return nil, err
	}

	seen := make(map[entities.TrackerKey]bool)
	var trackers []*entities.RegionTracker
	arr.ForEach(func(_, entry gjson.Result) bool {
		tracker, err := l.parseTracker(entry)
		if err != nil {
			slog.Warn("Dropping tracker", "file", path, "error", err)
			return true
		}
		if seen[tracker.Key()] {
			slog.Warn("Dropping duplicate tracker",
				"file", path,
				"global", tracker.Global.String(),
				"region", tracker.Region.String(),
			)
			return true
		}
		seen[tracker.Key()] = true
		trackers = append(trackers, tracker)
		return true
	})

	return trackers, nil
}

func (l *Loader) parseTracker(entry gjson.Result) (*entities.RegionTracker, error) {
	globalRef, err := ParseFormRef(entry.Get("GlobalVariable"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid GlobalVariable")
	}
	regionRef, err := ParseFormRef(entry.Get("Region"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid Region")
	}

	global, err := l.lookup.Resolve(globalRef, entities.FormGlobal)
	if err != nil {
		return nil, err
	}
	region, err := l.lookup.Resolve(regionRef, entities.FormLocation)
	if err != nil {
		return nil, err
	}

	return &entities.RegionTracker{
		Global:  global,
		Region:  region,
		Rewards: make(map[entities.Difficulty]uint32),
	}, nil
}

var textKeys = map[string]entities.TextSlot{
	"Objective":  entities.TextObjective,
	"Novice":     entities.TextNovice,
	"Apprentice": entities.TextApprentice,
	"Adept":      entities.TextAdept,
	"Expert":     entities.TextExpert,
	"Master":     entities.TextMaster,
	"Legendary":  entities.TextLegendary,
}

// ParseTexts reads Texts.json into texts. Both a flat object of slots and
// the {"Texts": [{...}]} form are accepted; later entries win.
func (l *Loader) ParseTexts(path string, texts *lookup.Texts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFoundf("data file %s not found", path)
		}
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return errors.InvalidArgumentf("%s is not valid JSON", path)
	}

	doc := gjson.ParseBytes(data)
	var blocks []gjson.Result
	if arr := doc.Get("Texts"); arr.IsArray() {
		blocks = arr.Array()
	} else {
		blocks = []gjson.Result{doc}
	}

	count := 0
	for _, block := range blocks {
		for key, slot := range textKeys {
			if v := block.Get(key); v.Exists() {
				texts.Set(slot, v.String())
				count++
			}
		}
	}
	if count == 0 {
		return errors.InvalidArgumentf("%s defines no texts", path)
	}

	slog.Info("Loaded display texts", "file", path, "slots", texts.Len())
	return nil
}
