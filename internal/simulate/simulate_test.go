package simulate_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/digital-apple/bounty-quests-ng/internal/config"
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
	"github.com/digital-apple/bounty-quests-ng/internal/plugin"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/cosave"
	"github.com/digital-apple/bounty-quests-ng/internal/simulate"
	"github.com/digital-apple/bounty-quests-ng/internal/testutils"
)

func ref(id entities.FormID) string {
	return fmt.Sprintf(`{"FormID": "0x%X", "ModName": %q}`, uint32(id), testutils.BaseGameFile)
}

type SimulateTestSuite struct {
	suite.Suite
	ctx    context.Context
	seeded *simulate.Seeded
	plugin *plugin.Plugin
	runner *simulate.Runner
}

func TestSimulateSuite(t *testing.T) {
	suite.Run(t, new(SimulateTestSuite))
}

func (s *SimulateTestSuite) SetupTest() {
	s.ctx = context.Background()
	dir := testutils.WriteBountyData(s.T())
	settings, err := config.LoadFrom(map[string]string{"BOUNTY_DATA_DIR": dir})
	s.Require().NoError(err)

	s.seeded, err = simulate.Seed(dir, settings.PluginForms())
	s.Require().NoError(err)

	fake := clock.NewFake(time.Unix(0, 0))
	s.plugin, err = plugin.New(&plugin.Config{
		Settings: settings,
		Host:     s.seeded.World,
		Bridge:   s.seeded.World,
		Clock:    fake,
	})
	s.Require().NoError(err)
	_, err = s.plugin.OnDataLoaded()
	s.Require().NoError(err)

	s.runner, err = simulate.NewRunner(&simulate.RunnerConfig{
		Seeded: s.seeded,
		Plugin: s.plugin,
		Slots:  cosave.NewInMemory(fake),
	})
	s.Require().NoError(err)
}

func (s *SimulateTestSuite) TearDownTest() {
	s.Require().NoError(s.plugin.Close())
}

func (s *SimulateTestSuite) TestSeedPlacesEveryBounty() {
	s.Equal([]string{testutils.BaseGameFile, entities.DefaultPluginFile}, s.seeded.LoadOrder)
	s.Equal([]entities.FormID{testutils.Falkreath, testutils.Whiterun}, s.seeded.Regions)
	s.Len(s.seeded.Bosses, len(testutils.BountyLocations))
	s.Len(s.plugin.Definitions(), len(testutils.BountyLocations))

	quest, err := s.seeded.Resolve(entities.FormRef{ID: testutils.LocalBountyQuest, File: entities.DefaultPluginFile}, entities.FormQuest)
	s.Require().NoError(err)
	s.Equal(entities.FormID(0x01120000), quest)
	s.Len(s.seeded.World.Aliases(quest), len(testutils.BountyLocations))
}

func (s *SimulateTestSuite) TestSeedRequiresQuestFiles() {
	_, err := simulate.Seed(s.T().TempDir(), entities.DefaultPluginForms())
	s.True(errors.IsNotFound(err))
}

func (s *SimulateTestSuite) TestRunSession() {
	scenario := fmt.Sprintf(`{"Steps": [
		{"Op": "move", "Location": %[1]s},
		{"Op": "menu", "Region": %[1]s, "Category": "Bandit"},
		{"Op": "take", "Location": %[2]s},
		{"Op": "close_menu"},
		{"Op": "start_every", "Region": %[1]s, "Category": "Dragon"},
		{"Op": "claim", "Location": %[2]s},
		{"Op": "reward", "Region": %[1]s},
		{"Op": "save", "Slot": "quicksave"},
		{"Op": "claim", "Location": %[3]s},
		{"Op": "load", "Slot": "quicksave"}
	]}`, ref(testutils.Whiterun), ref(testutils.Embershard), ref(testutils.Bonestrewn))

	results, err := s.runner.Run(s.ctx, []byte(scenario))
	s.Require().NoError(err)
	s.Require().Len(results, 10)

	s.Equal(simulate.OpMenu, results[1].Op)
	s.Equal("3 notes offered", results[1].Detail)
	s.Equal("Embershard Mine", results[2].Detail)
	s.Equal("1 bounties reserved", results[3].Detail)
	s.Equal("3 bounties reserved", results[4].Detail)
	s.Equal(testutils.AddedToInventory+" Gold, 5", results[6].Detail)

	snapshot := s.runner.Snapshot()
	s.ElementsMatch([]entities.FormID{testutils.Bonestrewn, testutils.AncientsAscent}, snapshot.Reserved)
	s.Equal(uint32(5), snapshot.Inventory[s.goldID()])
	s.Require().Len(snapshot.Trackers, 2)
	for _, t := range snapshot.Trackers {
		s.False(t.Pending())
	}
}

func (s *SimulateTestSuite) TestRunStopsAtFirstFailure() {
	scenario := fmt.Sprintf(`{"Steps": [
		{"Op": "dialogue"},
		{"Op": "claim", "Location": %s},
		{"Op": "reward", "Region": %s}
	]}`, ref(testutils.Halted), ref(testutils.Whiterun))

	results, err := s.runner.Run(s.ctx, []byte(scenario))
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Contains(err.Error(), "step 2 (claim)")
	s.Len(results, 1)
}

func (s *SimulateTestSuite) TestKilledBossIsAbandoned() {
	scenario := fmt.Sprintf(`{"Steps": [
		{"Op": "kill", "Location": %s},
		{"Op": "start_random", "Region": %s}
	]}`, ref(testutils.Bloated), ref(testutils.Falkreath))

	results, err := s.runner.Run(s.ctx, []byte(scenario))
	s.Require().NoError(err)
	s.Equal("0 bounties reserved", results[1].Detail)
}

func (s *SimulateTestSuite) TestUnknownStep() {
	_, err := s.runner.Run(s.ctx, []byte(`{"Steps": [{"Op": "teleport"}]}`))
	s.True(errors.IsInvalidArgument(err))

	_, err = s.runner.Run(s.ctx, []byte(`{"Steps": [`))
	s.True(errors.IsInvalidArgument(err))
}

func (s *SimulateTestSuite) goldID() entities.FormID {
	id, err := s.seeded.Resolve(entities.FormRef{ID: testutils.Gold, File: testutils.BaseGameFile}, entities.FormItem)
	s.Require().NoError(err)
	return id
}
