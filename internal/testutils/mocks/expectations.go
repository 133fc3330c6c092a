// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	hostmock "github.com/digital-apple/bounty-quests-ng/internal/host/mock"
)

// ExpectPlayerInside answers every editor-location check of the player
// against region with inside
func ExpectPlayerInside(bridge *hostmock.MockBridge, region, player entities.FormID, inside bool) {
	bridge.EXPECT().
		IsEditorLocation(region, player).
		Return(inside, nil).
		AnyTimes()
}

// ExpectObjectiveCompleted expects an objective to be completed and then
// made dormant, in that order
func ExpectObjectiveCompleted(bridge *hostmock.MockBridge, quest entities.FormID, index uint16) {
	gomock.InOrder(
		bridge.EXPECT().SetObjectiveState(quest, index, host.ObjectiveCompletedDisplayed).Return(nil),
		bridge.EXPECT().SetObjectiveState(quest, index, host.ObjectiveDormant).Return(nil),
	)
}

// ExpectObjectiveDisplayed expects an objective to be shown once
func ExpectObjectiveDisplayed(bridge *hostmock.MockBridge, quest entities.FormID, index uint16) {
	bridge.EXPECT().
		SetObjectiveState(quest, index, host.ObjectiveDisplayed).
		Return(nil)
}

// ExpectBossesAlive answers the boss count of a location
func ExpectBossesAlive(bridge *hostmock.MockBridge, location, bossType entities.FormID, alive uint32) {
	bridge.EXPECT().
		CountAliveOfType(location, bossType).
		Return(alive, nil).
		AnyTimes()
}
