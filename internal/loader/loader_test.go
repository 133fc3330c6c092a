package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
	"github.com/digital-apple/bounty-quests-ng/internal/loader"
	"github.com/digital-apple/bounty-quests-ng/internal/lookup"
)

const (
	skyrim = "Skyrim.esm"
	bounty = "Bounty Quests Redone - NG.esl"
)

type LoaderTestSuite struct {
	suite.Suite
	dir    string
	world  *sim.World
	loader *loader.Loader
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func (s *LoaderTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.Require().NoError(os.MkdirAll(filepath.Join(s.dir, "Quests"), 0o755))

	s.world = sim.New()
	s.world.AddLocation(0x16770, entities.NoForm, "Whiterun Hold")
	s.world.AddLocation(0x1F00, 0x16770, "Embershard Mine")
	s.world.Register(entities.FormRef{ID: 0x16770, File: skyrim}, 0x16770, entities.FormLocation, "Whiterun Hold")
	s.world.Register(entities.FormRef{ID: 0x1F00, File: skyrim}, 0x1F00, entities.FormLocation, "Embershard Mine")
	s.world.Register(entities.FormRef{ID: 0x802, File: bounty}, 0xFE000802, entities.FormQuest, "")
	s.world.Register(entities.FormRef{ID: 0x1000, File: bounty}, 0xFE001000, entities.FormGlobal, "")

	catalog, err := lookup.New(&lookup.Config{Forms: s.world})
	s.Require().NoError(err)

	s.loader, err = loader.New(&loader.Config{
		Host:   s.world,
		Lookup: catalog,
		Forms:  entities.DefaultPluginForms(),
	})
	s.Require().NoError(err)
}

func (s *LoaderTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *LoaderTestSuite) TestParseFormID() {
	testCases := []struct {
		name     string
		json     string
		expected entities.FormID
		wantErr  bool
	}{
		{name: "number", json: `{"v": 7936}`, expected: 0x1F00},
		{name: "hex with prefix", json: `{"v": "0x1F00"}`, expected: 0x1F00},
		{name: "upper case prefix", json: `{"v": "0X1f00"}`, expected: 0x1F00},
		{name: "decimal string", json: `{"v": "123"}`, expected: 123},
		{name: "hex digits without prefix", json: `{"v": "bad"}`, wantErr: true},
		{name: "empty hex", json: `{"v": "0x"}`, wantErr: true},
		{name: "negative", json: `{"v": -1}`, wantErr: true},
		{name: "too large", json: `{"v": 4294967296}`, wantErr: true},
		{name: "fraction", json: `{"v": 1.5}`, wantErr: true},
		{name: "not hex", json: `{"v": "zz"}`, wantErr: true},
		{name: "missing", json: `{}`, wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			id, err := loader.ParseFormID(gjson.Get(tc.json, "v"))
			if tc.wantErr {
				s.Require().Error(err)
				s.True(errors.IsInvalidArgument(err))
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.expected, id)
		})
	}
}

func (s *LoaderTestSuite) TestParseQuestDefinitions() {
	s.write("Quests/b.json", `{"Quests": [
		{"LocationName": "Embershard Mine", "Difficulty": "NOVICE", "Type": "bandit",
		 "Location": {"FormID": 7936, "ModName": "Skyrim.esm"},
		 "Region": {"FormID": "0x16770", "ModName": "Skyrim.esm"},
		 "Quest": {"FormID": "0x802", "ModName": "Bounty Quests Redone - NG.esl"}},
		{"LocationName": "Nowhere", "Difficulty": "Adept", "Type": "Giant",
		 "Location": {"FormID": 1, "ModName": "Missing.esp"},
		 "Region": {"FormID": "0x16770", "ModName": "Skyrim.esm"},
		 "Quest": {"FormID": "0x802", "ModName": "Bounty Quests Redone - NG.esl"}}
	]}`)
	s.write("Quests/a.json", `{"Quests": [
		{"LocationName": "Embershard Mine", "Difficulty": "Master", "Type": "Dwemer",
		 "Location": {"FormID": 7936, "ModName": "Skyrim.esm"},
		 "Region": {"FormID": 92016, "ModName": "Skyrim.esm"},
		 "Quest": {"FormID": 2050, "ModName": "Bounty Quests Redone - NG.esl"}}
	]}`)
	s.write("Quests/broken.json", `{"Quests": [`)
	s.write("Quests/readme.txt", `not json`)

	defs, err := s.loader.ParseQuestDefinitions(filepath.Join(s.dir, "Quests"))
	s.Require().NoError(err)
	s.Require().Len(defs, 2)

	first := defs[0]
	s.Equal(entities.DifficultyMaster, first.Difficulty)
	s.Equal(entities.CategoryNone, first.Category)
	s.Equal(filepath.Join(s.dir, "Quests", "a.json"), first.Source)

	second := defs[1]
	s.Equal("Embershard Mine", second.Name)
	s.Equal(entities.DifficultyNovice, second.Difficulty)
	s.Equal(entities.CategoryBandit, second.Category)
	s.Equal(entities.FormID(0x1F00), second.Location)
	s.Equal(entities.FormID(0x16770), second.Region)
	s.Equal(entities.FormID(0xFE000802), second.Quest)

	note, ok := s.world.Note(second.Note)
	s.Require().True(ok)
	s.Equal("NOVICE - Embershard Mine", note.Name)
	s.Equal(entities.DefaultPluginForms().NoteModel, note.Model)
	s.Equal(entities.DefaultPluginForms().NotePickupSound, note.PickupSound)
	s.NotEqual(first.Note, second.Note)
}

func (s *LoaderTestSuite) TestParseQuestDefinitionsMissingDir() {
	_, err := s.loader.ParseQuestDefinitions(filepath.Join(s.dir, "Nope"))
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *LoaderTestSuite) TestParseRewards() {
	path := s.write("Rewards.json", `{"Rewards": [
		{"FormID": 15, "ModName": "Skyrim.esm", "Quantity": {"Novice": 5, "Apprentice": 10, "Legendary": 100}},
		{"FormID": "bad", "ModName": "Skyrim.esm"},
		{"FormID": 16}
	]}`)

	rules, err := s.loader.ParseRewards(path)
	s.Require().NoError(err)
	s.Require().Len(rules, 1)

	rule := rules[0]
	s.Equal(entities.FormRef{ID: 0x0F, File: skyrim}, rule.Item)
	s.Equal(uint32(5), rule.Quantity[entities.DifficultyNovice])
	s.Equal(uint32(10), rule.Quantity[entities.DifficultyApprentice])
	s.Equal(uint32(0), rule.Quantity[entities.DifficultyMaster])
	s.Equal(uint32(100), rule.Quantity[entities.DifficultyLegendary])
}

func (s *LoaderTestSuite) TestParseRewardsMalformed() {
	_, err := s.loader.ParseRewards(s.write("Rewards.json", `{"Rewards": {}}`))
	s.True(errors.IsInvalidArgument(err))

	_, err = s.loader.ParseRewards(filepath.Join(s.dir, "Missing.json"))
	s.True(errors.IsNotFound(err))
}

func (s *LoaderTestSuite) TestParseTrackersDropsDuplicatesAndUnresolved() {
	path := s.write("Trackers.json", `{"Trackers": [
		{"GlobalVariable": {"FormID": "0x1000", "ModName": "Bounty Quests Redone - NG.esl"}, "Region": {"FormID": 92016, "ModName": "Skyrim.esm"}},
		{"GlobalVariable": {"FormID": "0x1000", "ModName": "Bounty Quests Redone - NG.esl"}, "Region": {"FormID": 92016, "ModName": "Skyrim.esm"}},
		{"GlobalVariable": {"FormID": "0x2000", "ModName": "Bounty Quests Redone - NG.esl"}, "Region": {"FormID": 92016, "ModName": "Skyrim.esm"}},
		{"GlobalVariable": "oops", "Region": {"FormID": 92016, "ModName": "Skyrim.esm"}}
	]}`)

	trackers, err := s.loader.ParseTrackers(path)
	s.Require().NoError(err)
	s.Require().Len(trackers, 1)
	s.Equal(entities.TrackerKey{Global: 0xFE001000, Region: 0x16770}, trackers[0].Key())
	s.NotNil(trackers[0].Rewards)
}

func (s *LoaderTestSuite) TestParseTextsArrayForm() {
	path := s.write("Texts.json", `{"Texts": [{"Objective": "[%d] %i: %l", "Novice": "Novice", "Legendary": "Legendary"}]}`)

	texts := lookup.NewTexts()
	s.Require().NoError(s.loader.ParseTexts(path, texts))

	s.Equal(3, texts.Len())
	s.Equal("[Novice] 01: Embershard Mine", texts.FormatObjective(entities.DifficultyNovice, 1, "Embershard Mine"))
}

func (s *LoaderTestSuite) TestParseTextsFlatForm() {
	path := s.write("Texts.json", `{"Objective": "Clear %l", "Master": "Meister"}`)

	texts := lookup.NewTexts()
	s.Require().NoError(s.loader.ParseTexts(path, texts))
	s.Equal("Meister", texts.FormatDifficulty(entities.DifficultyMaster))
}

func (s *LoaderTestSuite) TestParseTextsEmpty() {
	texts := lookup.NewTexts()
	err := s.loader.ParseTexts(s.write("Texts.json", `{"Other": 1}`), texts)
	s.True(errors.IsInvalidArgument(err))
}
