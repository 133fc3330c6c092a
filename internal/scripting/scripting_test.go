package scripting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/orchestrators/bounty"
	bountymock "github.com/digital-apple/bounty-quests-ng/internal/orchestrators/bounty/mock"
	"github.com/digital-apple/bounty-quests-ng/internal/scripting"
)

const (
	region entities.FormID = 0x00016770
	quest  entities.FormID = 0xFE001200
)

type ScriptingTestSuite struct {
	suite.Suite
	ctx          context.Context
	ctrl         *gomock.Controller
	orchestrator *bountymock.MockService
	bridge       *scripting.Bridge
}

func TestScriptingSuite(t *testing.T) {
	suite.Run(t, new(ScriptingTestSuite))
}

func (s *ScriptingTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.orchestrator = bountymock.NewMockService(s.ctrl)
	s.bridge = scripting.New()
	s.bridge.Attach(s.orchestrator)
}

func (s *ScriptingTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ScriptingTestSuite) TestRewardPlayer() {
	s.orchestrator.EXPECT().
		GrantReward(s.ctx, &bounty.GrantRewardInput{Region: region}).
		Return(&bounty.GrantRewardOutput{}, nil)

	s.bridge.RewardPlayer(s.ctx, region)
}

func (s *ScriptingTestSuite) TestShowMenuMapsCategory() {
	s.orchestrator.EXPECT().
		ShowMenu(s.ctx, &bounty.ShowMenuInput{Region: region, Category: entities.CategoryDragon}).
		Return(&bounty.ShowMenuOutput{}, nil)

	s.bridge.ShowMenu(s.ctx, region, int32(entities.CategoryDragon))
}

func (s *ScriptingTestSuite) TestUnknownCategoryBecomesNone() {
	s.orchestrator.EXPECT().
		SelectByCategory(s.ctx, &bounty.SelectInput{Region: region, Category: entities.CategoryNone}).
		Return(&bounty.SelectOutput{}, nil).
		Times(2)

	s.bridge.StartEveryQuest(s.ctx, region, 12)
	s.bridge.StartEveryQuest(s.ctx, region, -1)
}

func (s *ScriptingTestSuite) TestStartRandomQuest() {
	s.orchestrator.EXPECT().
		SelectRandom(s.ctx, &bounty.SelectInput{Region: region, Category: entities.CategoryVampire}).
		Return(nil, errors.Internal("roll failed"))

	s.bridge.StartRandomQuest(s.ctx, region, int32(entities.CategoryVampire))
}

func (s *ScriptingTestSuite) TestUpdateReward() {
	s.orchestrator.EXPECT().
		OnRewardClaimed(s.ctx, &bounty.RewardClaimInput{Quest: quest, Index: 4}).
		Return(nil, errors.NotFound("no bounty bound"))

	s.bridge.UpdateReward(s.ctx, quest, 4)
	s.bridge.UpdateReward(s.ctx, quest, -1)
	s.bridge.UpdateReward(s.ctx, quest, 70000)
}

func (s *ScriptingTestSuite) TestNullHandlesAreIgnored() {
	s.bridge.RewardPlayer(s.ctx, entities.NoForm)
	s.bridge.ShowMenu(s.ctx, entities.NoForm, 1)
	s.bridge.StartEveryQuest(s.ctx, entities.NoForm, 0)
	s.bridge.StartRandomQuest(s.ctx, entities.NoForm, 0)
	s.bridge.UpdateReward(s.ctx, entities.NoForm, 1)
}

func (s *ScriptingTestSuite) TestCallsBeforeAttachAreIgnored() {
	s.bridge.Attach(nil)

	s.bridge.RewardPlayer(s.ctx, region)
	s.bridge.StartEveryQuest(s.ctx, region, 0)
	s.bridge.UpdateReward(s.ctx, quest, 1)
}
