package lookup_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/lookup"
)

type fakeForms struct {
	forms map[entities.FormRef]entities.FormID
	kinds map[entities.FormID]entities.FormKind
}

func (f *fakeForms) LookupForm(ref entities.FormRef, kind entities.FormKind) (entities.FormID, bool) {
	id, ok := f.forms[ref]
	if !ok {
		return entities.NoForm, false
	}
	if kind != entities.FormAny && f.kinds[id] != kind {
		return entities.NoForm, false
	}
	return id, true
}

func (f *fakeForms) FormExists(id entities.FormID, kind entities.FormKind) bool {
	k, ok := f.kinds[id]
	return ok && (kind == entities.FormAny || k == kind)
}

func (f *fakeForms) FormName(id entities.FormID) string { return "" }

func (f *fakeForms) CreateNote(_ host.NoteSpec) (entities.FormID, error) {
	return entities.NoForm, errors.Internal("not supported")
}

type LookupTestSuite struct {
	suite.Suite
	catalog *lookup.Catalog
}

func TestLookupSuite(t *testing.T) {
	suite.Run(t, new(LookupTestSuite))
}

func (s *LookupTestSuite) SetupTest() {
	forms := &fakeForms{
		forms: map[entities.FormRef]entities.FormID{
			{ID: 0x1F00, File: "Skyrim.esm"}: 0x00001F00,
			{ID: 0x0802, File: "Quests.esp"}: 0x05000802,
			{ID: 0x0803, File: "Quests.esp"}: 0x05000803,
			{ID: 0x000F, File: "Skyrim.esm"}: 0x0000000F,
		},
		kinds: map[entities.FormID]entities.FormKind{
			0x00001F00: entities.FormLocation,
			0x05000802: entities.FormQuest,
			0x05000803: entities.FormGlobal,
			0x0000000F: entities.FormItem,
		},
	}

	var err error
	s.catalog, err = lookup.New(&lookup.Config{Forms: forms})
	s.Require().NoError(err)
}

func (s *LookupTestSuite) TestResolve() {
	id, err := s.catalog.ResolveLocation(0x1F00, "Skyrim.esm")
	s.Require().NoError(err)
	s.Equal(entities.FormID(0x1F00), id)

	id, err = s.catalog.ResolveQuest(0x0802, "Quests.esp")
	s.Require().NoError(err)
	s.Equal(entities.FormID(0x05000802), id)

	id, err = s.catalog.ResolveGlobal(0x0803, "Quests.esp")
	s.Require().NoError(err)
	s.Equal(entities.FormID(0x05000803), id)

	id, err = s.catalog.ResolveItem(0x000F, "Skyrim.esm")
	s.Require().NoError(err)
	s.Equal(entities.FormID(0x0F), id)
}

func (s *LookupTestSuite) TestResolveFailures() {
	testCases := []struct {
		name  string
		id    entities.FormID
		file  string
		check func(error) bool
	}{
		{name: "unknown id", id: 0x9999, file: "Skyrim.esm", check: errors.IsNotFound},
		{name: "wrong kind", id: 0x0802, file: "Quests.esp", check: errors.IsNotFound},
		{name: "null id", id: entities.NoForm, file: "Skyrim.esm", check: errors.IsInvalidArgument},
		{name: "no file", id: 0x1F00, file: " ", check: errors.IsInvalidArgument},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			id, err := s.catalog.ResolveLocation(tc.id, tc.file)
			s.Require().Error(err)
			s.True(tc.check(err))
			s.True(id.IsNone())
		})
	}
}

func (s *LookupTestSuite) TestNewRequiresForms() {
	_, err := lookup.New(&lookup.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *LookupTestSuite) TestParseDifficultyRecognizedSpellings() {
	for _, d := range entities.Difficulties {
		name := d.String()
		for _, spelling := range []string{name, strings.ToLower(name), strings.ToUpper(name)} {
			s.Equal(d, lookup.ParseDifficulty(spelling), spelling)
		}
	}
}

func (s *LookupTestSuite) TestParseDifficultyUnrecognized() {
	for _, spelling := range []string{"", "none", "Novic", "novice ", "hard", "Légendary", "MASTERS"} {
		s.Equal(entities.DifficultyNone, lookup.ParseDifficulty(spelling), spelling)
	}
}

func (s *LookupTestSuite) TestParseCategoryRecognizedSpellings() {
	for _, c := range entities.Categories {
		name := c.String()
		for _, spelling := range []string{name, strings.ToLower(name), strings.ToUpper(name)} {
			s.Equal(c, lookup.ParseCategory(spelling), spelling)
		}
	}
	s.Equal(entities.CategoryDraugr, lookup.ParseCategory("dRaUgR"))
}

func (s *LookupTestSuite) TestParseCategoryUnrecognized() {
	for _, spelling := range []string{"", "None", "dwemer", "bandits", "wolf", " giant"} {
		s.Equal(entities.CategoryNone, lookup.ParseCategory(spelling), spelling)
	}
}

func (s *LookupTestSuite) TestFormatObjective() {
	texts := lookup.NewTexts()
	texts.Set(entities.TextObjective, "[%d] %i: Clear %l")
	texts.Set(entities.TextNovice, "Novice Bounty")

	s.Equal("[Novice Bounty] 03: Clear Embershard Mine",
		texts.FormatObjective(entities.DifficultyNovice, 3, "Embershard Mine"))
	s.Equal("[Master] 12: Clear Bleak Falls Barrow",
		texts.FormatObjective(entities.DifficultyMaster, 12, "Bleak Falls Barrow"))
}

func (s *LookupTestSuite) TestFormatObjectiveFirstOccurrenceOnly() {
	texts := lookup.NewTexts()
	texts.Set(entities.TextObjective, "%l and %l")
	s.Equal("Riverwood and %l", texts.FormatObjective(entities.DifficultyNovice, 1, "Riverwood"))
}

func (s *LookupTestSuite) TestFormatObjectiveMissingPlaceholders() {
	texts := lookup.NewTexts()
	texts.Set(entities.TextObjective, "Kill the leader")
	s.Equal("Kill the leader", texts.FormatObjective(entities.DifficultyAdept, 7, "Halted Stream"))

	empty := lookup.NewTexts()
	s.Equal("", empty.FormatObjective(entities.DifficultyAdept, 7, "Halted Stream"))
}

func (s *LookupTestSuite) TestFormatDifficultyFallback() {
	texts := lookup.NewTexts()
	s.Equal("Expert", texts.FormatDifficulty(entities.DifficultyExpert))
	s.Equal("None", texts.FormatDifficulty(entities.DifficultyNone))

	texts.Set(entities.TextExpert, "Expert (Hard)")
	s.Equal("Expert (Hard)", texts.FormatDifficulty(entities.DifficultyExpert))
	s.Equal(1, texts.Len())
}

func (s *LookupTestSuite) TestResolvePluginForms() {
	const plugin = "Bounty.esl"
	forms := &fakeForms{
		forms: map[entities.FormRef]entities.FormID{
			{ID: 0x10004B, File: plugin}: 0xFE00104B,
			{ID: 0x110000, File: plugin}: 0xFE001000,
			{ID: 0x100027, File: plugin}: 0xFE001027,
			{ID: 0x111000, File: plugin}: 0xFE001100,
		},
		kinds: map[entities.FormID]entities.FormKind{
			0xFE00104B: entities.FormQuest,
			0xFE001000: entities.FormQuest,
			0xFE001027: entities.FormActor,
			0xFE001100: entities.FormGlobal,
		},
	}
	catalog, err := lookup.New(&lookup.Config{Forms: forms})
	s.Require().NoError(err)

	in := entities.DefaultPluginForms()
	in.PluginFile = plugin

	out, err := catalog.ResolvePluginForms(in)
	s.Require().NoError(err)
	s.Equal(entities.FormID(0xFE00104B), out.AliasGenerator)
	s.Equal(entities.FormID(0xFE001000), out.Catalogue)
	s.Equal(entities.FormID(0xFE001027), out.MenuNPC)
	s.Equal(map[entities.Category]entities.FormID{entities.CategoryBandit: 0xFE001100}, out.RegionHas)
	s.Equal(in.BossRefType, out.BossRefType)

	delete(forms.forms, entities.FormRef{ID: 0x100027, File: plugin})
	_, err = catalog.ResolvePluginForms(in)
	s.True(errors.IsNotFound(err))
}
