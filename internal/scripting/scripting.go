// Package scripting exposes the native functions the host's script engine
// calls. Every entry point takes raw script arguments, treats null handles
// as no-ops and logs failures instead of returning them to the script.
package scripting

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/orchestrators/bounty"
)

// ScriptName is the script the native functions are bound to
const ScriptName = "BQ_NativeFunctions"

// Bridge dispatches script calls to the orchestrator. Calls made before
// an orchestrator is attached are ignored.
type Bridge struct {
	mu           sync.RWMutex
	orchestrator bounty.Service
}

// New creates a scripting bridge with no orchestrator attached
func New() *Bridge {
	return &Bridge{}
}

// Attach sets the orchestrator the script calls go to; nil detaches it
func (b *Bridge) Attach(orchestrator bounty.Service) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orchestrator = orchestrator
}

func (b *Bridge) service(function string) (bounty.Service, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.orchestrator == nil {
		slog.Warn("Script call before data load", "function", function)
		return nil, false
	}
	return b.orchestrator, true
}

// category converts a script category id; ids outside the known range
// select every category
func category(id int32) entities.Category {
	c := entities.Category(id)
	if id < 0 || !c.Valid() {
		slog.Warn("Unknown category id, using None", "category", id)
		return entities.CategoryNone
	}
	return c
}

// RewardPlayer pays out the region's completed bounties
func (b *Bridge) RewardPlayer(ctx context.Context, region entities.FormID) {
	if region.IsNone() {
		return
	}
	svc, ok := b.service("RewardPlayer")
	if !ok {
		return
	}
	if _, err := svc.GrantReward(ctx, &bounty.GrantRewardInput{Region: region}); err != nil {
		logFailure(ctx, "Failed to reward player", err, "region", region.String())
	}
}

// ShowMenu opens the bounty menu for the region and category
func (b *Bridge) ShowMenu(ctx context.Context, region entities.FormID, categoryID int32) {
	if region.IsNone() {
		return
	}
	svc, ok := b.service("ShowMenu")
	if !ok {
		return
	}
	input := &bounty.ShowMenuInput{Region: region, Category: category(categoryID)}
	if _, err := svc.ShowMenu(ctx, input); err != nil {
		logFailure(ctx, "Failed to show bounty menu", err, "region", region.String())
	}
}

// StartEveryQuest starts every available bounty of the region and category.
// Category 0 starts all of them.
func (b *Bridge) StartEveryQuest(ctx context.Context, region entities.FormID, categoryID int32) {
	if region.IsNone() {
		return
	}
	svc, ok := b.service("StartEveryQuest")
	if !ok {
		return
	}
	input := &bounty.SelectInput{Region: region, Category: category(categoryID)}
	if _, err := svc.SelectByCategory(ctx, input); err != nil {
		logFailure(ctx, "Failed to start bounties", err, "region", region.String())
	}
}

// StartRandomQuest starts one random available bounty of the region and category
func (b *Bridge) StartRandomQuest(ctx context.Context, region entities.FormID, categoryID int32) {
	if region.IsNone() {
		return
	}
	svc, ok := b.service("StartRandomQuest")
	if !ok {
		return
	}
	input := &bounty.SelectInput{Region: region, Category: category(categoryID)}
	if _, err := svc.SelectRandom(ctx, input); err != nil {
		logFailure(ctx, "Failed to start random bounty", err, "region", region.String())
	}
}

// UpdateReward completes the bounty bound to the quest objective
func (b *Bridge) UpdateReward(ctx context.Context, quest entities.FormID, index int32) {
	if quest.IsNone() {
		return
	}
	if index < 0 || index > math.MaxUint16 {
		slog.Warn("Objective index out of range", "quest", quest.String(), "index", index)
		return
	}
	svc, ok := b.service("UpdateReward")
	if !ok {
		return
	}
	input := &bounty.RewardClaimInput{Quest: quest, Index: uint16(index)}
	if _, err := svc.OnRewardClaimed(ctx, input); err != nil {
		logFailure(ctx, "Failed to update reward", err, "quest", quest.String(), "index", index)
	}
}

// logFailure logs a failed script call. Failures that clear once the host
// settles are logged at info.
func logFailure(ctx context.Context, msg string, err error, args ...any) {
	level := slog.LevelWarn
	if errors.IsTransient(err) {
		level = slog.LevelInfo
	}
	slog.Log(ctx, level, msg, append(args, "error", err)...)
}
