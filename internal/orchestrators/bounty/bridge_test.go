package bounty_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	hostmock "github.com/digital-apple/bounty-quests-ng/internal/host/mock"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
	"github.com/digital-apple/bounty-quests-ng/internal/lookup"
	"github.com/digital-apple/bounty-quests-ng/internal/orchestrators/bounty"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/worker"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/catalog"
	"github.com/digital-apple/bounty-quests-ng/internal/serialization"
	"github.com/digital-apple/bounty-quests-ng/internal/testutils"
	"github.com/digital-apple/bounty-quests-ng/internal/testutils/mocks"
)

// BridgeTestSuite drives the orchestrator against a mocked host bridge
type BridgeTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	bridge   *hostmock.MockBridge
	fixture  *testutils.BountyWorld
	world    *sim.World
	catalog  *catalog.InMemoryRepository
	store    *serialization.Store
	executor *worker.Serial
	defs     []*entities.QuestDefinition

	orchestrator bounty.Service
}

func TestBridgeSuite(t *testing.T) {
	suite.Run(t, new(BridgeTestSuite))
}

func (s *BridgeTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.bridge = hostmock.NewMockBridge(s.ctrl)
	s.fixture = testutils.NewBountyWorld()
	s.world = s.fixture.World

	s.catalog = catalog.NewInMemory()
	s.defs = s.fixture.Definitions()
	s.catalog.Add(s.defs...)

	var err error
	s.store, err = serialization.New(&serialization.Config{Host: s.world, Catalog: s.catalog})
	s.Require().NoError(err)
	for _, t := range s.fixture.Trackers() {
		s.Require().NoError(s.store.AddTracker(t))
	}

	s.executor, err = worker.NewSerial(&worker.Config{Name: "bridge-test"})
	s.Require().NoError(err)

	entityCatalog, err := lookup.New(&lookup.Config{Forms: s.world})
	s.Require().NoError(err)
	texts := lookup.NewTexts()
	texts.Set(entities.TextObjective, testutils.ObjectiveTemplate)

	s.orchestrator, err = bounty.NewOrchestrator(&bounty.Config{
		Host:         s.world,
		Bridge:       s.bridge,
		Catalog:      s.catalog,
		Store:        s.store,
		Lookup:       entityCatalog,
		Texts:        texts,
		Forms:        s.fixture.Forms,
		Executor:     s.executor,
		Clock:        clock.NewFake(time.Unix(0, 0)),
		BindAttempts: 2,
	})
	s.Require().NoError(err)
}

func (s *BridgeTestSuite) TearDownTest() {
	s.Require().NoError(s.executor.Close())
	s.ctrl.Finish()
}

func (s *BridgeTestSuite) TestForceBindFailureReleasesLocation() {
	s.bridge.EXPECT().
		SetQuestLocation(testutils.GeneratorQuest, uint32(0), testutils.Bloated).
		DoAndReturn(s.world.SetQuestLocation)
	s.bridge.EXPECT().
		ForceBindActor(testutils.BountyQuest, uint32(1), s.fixture.Boss(5)).
		Return(errors.Unavailablef("actor is not loaded"))

	out, err := s.orchestrator.SelectRandom(s.ctx, &bounty.SelectInput{Region: testutils.Falkreath})
	s.Require().NoError(err)
	s.Require().NoError(out.Batch.Done.Wait(s.ctx))

	s.Require().Len(out.Batch.Report.Results, 1)
	res := out.Batch.Report.Results[0]
	s.Equal(entities.StateAbandoned, res.State)
	s.True(errors.IsUnavailable(res.Err))
	s.False(s.store.IsReserved(testutils.Bloated))
	s.Empty(s.store.ObjectiveTexts())
}

func (s *BridgeTestSuite) TestSetQuestLocationFailureUsesEveryAttempt() {
	s.bridge.EXPECT().
		SetQuestLocation(testutils.GeneratorQuest, uint32(0), testutils.Bloated).
		Return(errors.Internal("alias missing")).
		Times(2)

	out, err := s.orchestrator.SelectRandom(s.ctx, &bounty.SelectInput{Region: testutils.Falkreath})
	s.Require().NoError(err)
	s.Require().NoError(out.Batch.Done.Wait(s.ctx))

	res := out.Batch.Report.Results[0]
	s.Equal(entities.StateAbandoned, res.State)
	s.Equal(2, res.Attempts)
	s.True(errors.IsUnavailable(res.Err))
}

func (s *BridgeTestSuite) TestClaimCompletesObjectiveBeforeTurnIn() {
	s.Require().True(s.catalog.SetObjectiveIndex(testutils.BountyQuest, testutils.Halted, 3))
	s.store.Reserve(testutils.Halted)

	mocks.ExpectObjectiveCompleted(s.bridge, testutils.BountyQuest, 3)
	mocks.ExpectObjectiveDisplayed(s.bridge, testutils.BountyQuest, 0)

	out, err := s.orchestrator.OnRewardClaimed(s.ctx, &bounty.RewardClaimInput{Quest: testutils.BountyQuest, Index: 3})
	s.Require().NoError(err)
	s.Equal(testutils.Halted, out.Definition.Location)
	s.False(s.store.IsReserved(testutils.Halted))
}

func (s *BridgeTestSuite) TestShowMenuFiltersOnBridgeAnswers() {
	player := s.world.Player()
	mocks.ExpectPlayerInside(s.bridge, testutils.Whiterun, player, true)
	mocks.ExpectBossesAlive(s.bridge, testutils.Embershard, s.fixture.Forms.BossRefType, 2)
	mocks.ExpectBossesAlive(s.bridge, testutils.Halted, s.fixture.Forms.BossRefType, 0)
	mocks.ExpectBossesAlive(s.bridge, testutils.SilentMoons, s.fixture.Forms.BossRefType, 1)
	s.bridge.EXPECT().ShowGiftMenu(testutils.MenuNPC, player).Return(nil)

	out, err := s.orchestrator.ShowMenu(s.ctx, &bounty.ShowMenuInput{
		Region:   testutils.Whiterun,
		Category: entities.CategoryBandit,
	})
	s.Require().NoError(err)
	s.Equal([]entities.FormID{s.defs[0].Note, s.defs[2].Note}, out.Notes)
	s.Equal(uint32(1), s.world.ItemCount(testutils.MenuNPC, s.defs[2].Note))
}

func (s *BridgeTestSuite) TestShowMenuReportsGiftMenuFailure() {
	player := s.world.Player()
	mocks.ExpectPlayerInside(s.bridge, testutils.Falkreath, player, false)
	mocks.ExpectBossesAlive(s.bridge, testutils.Bloated, s.fixture.Forms.BossRefType, 1)
	s.bridge.EXPECT().ShowGiftMenu(testutils.MenuNPC, player).Return(errors.Unavailablef("menu already open"))

	out, err := s.orchestrator.ShowMenu(s.ctx, &bounty.ShowMenuInput{Region: testutils.Falkreath})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
	s.Require().NotNil(out)
	s.Empty(out.Notes)
}

func (s *BridgeTestSuite) TestRefreshRegionFlagsTreatsErrorsAsOutside() {
	player := s.world.Player()
	s.bridge.EXPECT().
		IsEditorLocation(testutils.Whiterun, player).
		Return(false, errors.Internal("location not loaded"))
	mocks.ExpectPlayerInside(s.bridge, testutils.Falkreath, player, true)

	out, err := s.orchestrator.RefreshRegionFlags(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[entities.Category]bool{entities.CategoryDraugr: true}, out.Flags)
}
