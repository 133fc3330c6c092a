package plugin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/digital-apple/bounty-quests-ng/internal/config"
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/events"
	"github.com/digital-apple/bounty-quests-ng/internal/host/offsets"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
	"github.com/digital-apple/bounty-quests-ng/internal/plugin"
	"github.com/digital-apple/bounty-quests-ng/internal/testutils"
)

type library struct{}

func (library) Address(id uint64) (uintptr, bool) { return uintptr(0x140000000 + id), true }

type invoker struct{}

func (invoker) Call(uintptr, ...uintptr) (uintptr, error) { return 0, nil }
func (invoker) Store(uintptr, uint64) error               { return nil }

type resolver struct{}

func (resolver) Pointer(entities.FormID) (uintptr, bool)           { return 0, false }
func (resolver) Objective(entities.FormID, uint16) (uintptr, bool) { return 0, false }
func (resolver) RefHandle(entities.FormID) (uint32, bool)          { return 0, false }
func (resolver) QueueGiftMenu() error                              { return nil }

type PluginTestSuite struct {
	suite.Suite
	ctx      context.Context
	fixture  *testutils.BountyWorld
	world    *sim.World
	settings *config.Config
	plugin   *plugin.Plugin
}

func TestPluginSuite(t *testing.T) {
	suite.Run(t, new(PluginTestSuite))
}

func (s *PluginTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fixture = testutils.NewBountyWorld()
	s.world = s.fixture.World

	var err error
	s.settings, err = config.LoadFrom(map[string]string{
		"BOUNTY_DATA_DIR":  testutils.WriteBountyData(s.T()),
		"BOUNTY_LOG_LEVEL": "debug",
	})
	s.Require().NoError(err)

	s.plugin, err = plugin.New(&plugin.Config{
		Settings: s.settings,
		Host:     s.world,
		Bridge:   s.world,
		Clock:    clock.NewFake(time.Unix(0, 0)),
	})
	s.Require().NoError(err)
}

func (s *PluginTestSuite) TearDownTest() {
	s.Require().NoError(s.plugin.Close())
}

// settle waits until every batch submitted so far has run
func (s *PluginTestSuite) settle() {
	orchestrator, ok := s.plugin.Orchestrator()
	s.Require().True(ok)
	out, err := orchestrator.RunQueue(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(out.Done.Wait(s.ctx))
}

func (s *PluginTestSuite) definition(location entities.FormID) *entities.QuestDefinition {
	for _, def := range s.plugin.Definitions() {
		if def.Location == location {
			return def
		}
	}
	s.FailNow("definition not loaded", "location %s", location)
	return nil
}

func (s *PluginTestSuite) TestNewValidatesConfig() {
	_, err := plugin.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = plugin.New(&plugin.Config{Settings: s.settings, Host: s.world})
	s.Require().Error(err)
	s.Contains(err.Error(), "Bridge")
}

func (s *PluginTestSuite) TestUnsupportedRuntimeIsFatal() {
	_, err := plugin.New(&plugin.Config{
		Settings: s.settings,
		Host:     s.world,
		Native:   &plugin.Native{Version: "1.4.15.0", Library: library{}, Invoker: invoker{}, Resolver: resolver{}},
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *PluginTestSuite) TestNativeBridgeForSupportedRuntime() {
	p, err := plugin.New(&plugin.Config{
		Settings: s.settings,
		Host:     s.world,
		Native:   &plugin.Native{Version: "1.6.1170.0", Library: library{}, Invoker: invoker{}, Resolver: resolver{}},
	})
	s.Require().NoError(err)
	s.Require().NoError(p.Close())
}

func (s *PluginTestSuite) TestOnDataLoaded() {
	summary, err := s.plugin.OnDataLoaded()
	s.Require().NoError(err)
	s.Equal(&plugin.LoadSummary{Definitions: 6, Rewards: 1, Trackers: 2, Texts: 7}, summary)

	s.Len(s.plugin.Definitions(), 6)
	s.True(s.plugin.Store().IsTracked(testutils.Whiterun))
	s.True(s.plugin.Store().IsTracked(testutils.Falkreath))

	note, ok := s.world.Note(s.definition(testutils.Bloated).Note)
	s.Require().True(ok)
	s.Equal("Legendary - Bloated Man's Grotto", note.Name)

	_, err = s.plugin.OnDataLoaded()
	s.True(errors.IsFailedPrecondition(err))
}

func (s *PluginTestSuite) TestMissingPluginFormsKeepPluginInert() {
	p, err := plugin.New(&plugin.Config{Settings: s.settings, Host: sim.New(), Bridge: s.world})
	s.Require().NoError(err)
	defer func() { s.NoError(p.Close()) }()

	_, err = p.OnDataLoaded()
	s.True(errors.IsNotFound(err))

	_, ok := p.Orchestrator()
	s.False(ok)
	p.Scripting().StartEveryQuest(s.ctx, testutils.Whiterun, 0)
}

func (s *PluginTestSuite) TestScriptedStartAndClaim() {
	_, err := s.plugin.OnDataLoaded()
	s.Require().NoError(err)

	scripts := s.plugin.Scripting()
	scripts.StartEveryQuest(s.ctx, testutils.Whiterun, int32(entities.CategoryDragon))
	s.settle()

	s.True(s.plugin.Store().IsReserved(testutils.Bonestrewn))
	s.True(s.plugin.Store().IsReserved(testutils.AncientsAscent))
	s.Equal("[Expert] 01: Clear Bonestrewn Crest", s.world.ObjectiveText(testutils.BountyQuest, 1))

	scripts.UpdateReward(s.ctx, testutils.BountyQuest, 1)
	s.False(s.plugin.Store().IsReserved(testutils.Bonestrewn))

	scripts.RewardPlayer(s.ctx, testutils.Whiterun)
	s.Equal(uint32(40), s.world.ItemCount(s.world.Player(), testutils.Gold))
}

func (s *PluginTestSuite) TestNoteAndMenuEvents() {
	_, err := s.plugin.OnDataLoaded()
	s.Require().NoError(err)

	bus := s.plugin.Bus()
	s.world.OnContainerChanged(func(c sim.ContainerChange) {
		s.NoError(events.PublishContainerChanged(s.ctx, bus, &events.ContainerChangeEntity{
			From: c.From, To: c.To, Item: c.Item, Count: c.Count,
		}))
	})

	def := s.definition(testutils.Embershard)
	s.Require().NoError(s.world.AddItem(testutils.MenuNPC, def.Note, 1))
	s.Require().NoError(s.world.Transfer(testutils.MenuNPC, s.world.Player(), def.Note, 1))
	s.Zero(s.world.ItemCount(s.world.Player(), def.Note))

	s.Require().NoError(events.PublishMenu(s.ctx, bus, events.GiftMenu, false))
	s.settle()
	s.True(s.plugin.Store().IsReserved(testutils.Embershard))

	s.Require().NoError(events.PublishMenu(s.ctx, bus, events.DialogueMenu, true))
	bandit, _ := s.world.Global(s.fixture.Forms.RegionHas[entities.CategoryBandit])
	s.Equal(float32(1), bandit)

	s.Require().NoError(events.PublishLocationChange(s.ctx, bus, s.world.Player(), testutils.WhiterunCity, testutils.Bloated))
	s.settle()
	s.Equal(testutils.Falkreath, s.world.AliasLocation(testutils.CatalogueQuest, 0))
}

func (s *PluginTestSuite) TestSaveRevertLoad() {
	_, err := s.plugin.OnDataLoaded()
	s.Require().NoError(err)

	s.plugin.Scripting().StartEveryQuest(s.ctx, testutils.Falkreath, 0)
	s.settle()
	s.Require().NoError(s.plugin.Store().Increment(testutils.Whiterun, entities.DifficultyMaster))

	save := sim.NewContainer()
	s.Require().NoError(s.plugin.OnSave(save))

	s.plugin.OnRevert()
	s.False(s.plugin.Store().IsReserved(testutils.Bloated))

	save.Rewind(nil)
	s.Require().NoError(s.plugin.OnLoad(save))
	s.True(s.plugin.Store().IsReserved(testutils.Bloated))
	tracker, ok := s.plugin.Store().Tracker(testutils.Whiterun)
	s.Require().True(ok)
	s.Equal(uint32(1), tracker.Rewards[entities.DifficultyMaster])
}

func (s *PluginTestSuite) TestCloseDetachesScripts() {
	_, err := s.plugin.OnDataLoaded()
	s.Require().NoError(err)
	s.Require().NoError(s.plugin.Close())

	s.plugin.Scripting().StartEveryQuest(s.ctx, testutils.Whiterun, 0)
	s.Empty(s.plugin.Store().Reserved())
}

var _ offsets.AddressLibrary = library{}
