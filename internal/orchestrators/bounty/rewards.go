package bounty

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// OnRewardClaimed completes the bounty bound to the objective: the
// objective goes dormant, the location is released, the region's tracker
// counts one more bounty of the tier and the turn-in objective is shown.
func (o *orchestrator) OnRewardClaimed(ctx context.Context, input *RewardClaimInput) (*RewardClaimOutput, error) {
	if input == nil || input.Quest.IsNone() {
		return nil, errors.InvalidArgument("quest is required")
	}

	def, ok := o.claimant(input.Quest, input.Index)
	if !ok {
		return nil, errors.NotFoundf("no bounty bound to objective %d of quest %s", input.Index, input.Quest)
	}

	o.completeObjective(def.Region, input.Index)
	o.catalog.ClearObjectiveIndex(def)
	o.store.Release(def.Location)

	if err := o.store.Increment(def.Region, def.Difficulty); err != nil {
		slog.Warn("Failed to record completed bounty",
			"quest", def.Name,
			"region", def.Region.String(),
			"error", err,
		)
	}

	state, ok := o.host.ObjectiveState(def.Quest, turnInObjective)
	if ok && !state.Displayed() {
		if err := o.bridge.SetObjectiveState(def.Quest, turnInObjective, host.ObjectiveDisplayed); err != nil {
			slog.Warn("Failed to display turn-in objective", "quest", def.Quest.String(), "error", err)
		}
	}

	o.setState(def, entities.StateCompleted)
	slog.Info("Completed bounty",
		"quest", def.Name,
		"difficulty", def.Difficulty.String(),
		"region", def.Region.String(),
	)
	o.publish(ctx, EventCompleted, def)

	return &RewardClaimOutput{Definition: def}, nil
}

// claimant picks the definition a claim of the objective completes: the one
// whose location is still reserved, else the first bound one
func (o *orchestrator) claimant(quest entities.FormID, index uint16) (*entities.QuestDefinition, bool) {
	bound := o.catalog.FindAllByObjective(quest, index)
	if len(bound) == 0 {
		return nil, false
	}
	for _, def := range bound {
		if o.store.IsReserved(def.Location) {
			return def, true
		}
	}
	return bound[0], true
}

// GrantReward pays out the region's tracker: every reward rule gives its
// per-tier quantity times the tier's count. The tracker is cleared
// afterwards.
func (o *orchestrator) GrantReward(ctx context.Context, input *GrantRewardInput) (*GrantRewardOutput, error) {
	if input == nil || input.Region.IsNone() {
		return nil, errors.InvalidArgument("region is required")
	}

	tracker, ok := o.store.Tracker(input.Region)
	if !ok {
		return nil, errors.NotFoundf("no tracker for region %s", input.Region)
	}

	player := o.host.Player()
	template, hasTemplate := o.host.GameSetting(addedToInventorySetting)
	out := &GrantRewardOutput{}

	for _, rule := range o.rewards {
		item, err := o.lookup.Resolve(rule.Item, entities.FormItem)
		if err != nil {
			slog.Warn("Invalid reward item", "item", rule.Item.String(), "error", err)
			continue
		}
		name := o.host.FormName(item)

		for _, d := range entities.Difficulties {
			quantity, count := rule.Quantity[d], tracker.Rewards[d]
			if quantity == 0 || count == 0 {
				continue
			}
			total := quantity * count

			if err := o.host.AddItem(player, item, total); err != nil {
				slog.Warn("Failed to grant reward", "item", item.String(), "quantity", total, "error", err)
				continue
			}
			o.completeObjective(input.Region, turnInObjective)

			if hasTemplate {
				o.host.PlaySound(rewardSound)
				o.host.Notify(fmt.Sprintf("%s %s, %d", template, name, total))
			}

			out.Grants = append(out.Grants, Grant{Item: item, Name: name, Difficulty: d, Quantity: total})
			slog.Info("Granted reward",
				"region", input.Region.String(),
				"item", name,
				"difficulty", d.String(),
				"quantity", total,
			)
		}
	}

	if err := o.store.ClearTracker(input.Region); err != nil {
		slog.Warn("Failed to clear tracker", "region", input.Region.String(), "error", err)
	}
	if len(out.Grants) > 0 {
		o.publishRegion(ctx, EventRewarded, input.Region)
	}
	return out, nil
}

// RefreshRegionFlags recomputes the region-has globals: a category's flag
// is set when a bounty of that category lies in a region the player is in
func (o *orchestrator) RefreshRegionFlags(_ context.Context) (*RefreshRegionFlagsOutput, error) {
	player := o.host.Player()
	flags := make(map[entities.Category]bool, len(o.forms.RegionHas))
	inside := make(map[entities.FormID]bool)

	for _, def := range o.catalog.Definitions() {
		in, checked := inside[def.Region]
		if !checked {
			var err error
			in, err = o.bridge.IsEditorLocation(def.Region, player)
			if err != nil {
				slog.Warn("Failed to check player region", "region", def.Region.String(), "error", err)
			}
			inside[def.Region] = in
		}
		if in && def.Category != entities.CategoryNone {
			flags[def.Category] = true
		}
	}

	for _, category := range entities.Categories {
		global, ok := o.forms.RegionHas[category]
		if !ok {
			continue
		}
		value := float32(0)
		if flags[category] {
			value = 1
		}
		if err := o.host.SetGlobal(global, value); err != nil {
			slog.Warn("Failed to set region flag", "category", category.String(), "error", err)
		}
	}

	return &RefreshRegionFlagsOutput{Flags: flags}, nil
}

// ShowMenu fills the menu NPC with the notes of the bounties the player
// can take here and opens the gift menu
func (o *orchestrator) ShowMenu(_ context.Context, input *ShowMenuInput) (*ShowMenuOutput, error) {
	if input == nil || input.Region.IsNone() {
		return nil, errors.InvalidArgument("region is required")
	}

	npc := o.forms.MenuNPC
	player := o.host.Player()

	if err := o.host.ResetInventory(npc); err != nil {
		return nil, errors.Wrap(err, "failed to reset menu inventory")
	}

	out := &ShowMenuOutput{}
	for _, def := range o.catalog.Find(input.Region, input.Category) {
		if o.store.IsReserved(def.Location) {
			continue
		}
		alive, err := o.bridge.CountAliveOfType(def.Location, o.forms.BossRefType)
		if err != nil {
			slog.Warn("Failed to count bosses", "location", def.Location.String(), "error", err)
			continue
		}
		if alive == 0 {
			continue
		}
		in, err := o.bridge.IsEditorLocation(def.Region, player)
		if err != nil || !in {
			continue
		}
		if err := o.host.AddItem(npc, def.Note, 1); err != nil {
			slog.Warn("Failed to add note to menu", "quest", def.Name, "error", err)
			continue
		}
		out.Notes = append(out.Notes, def.Note)
	}

	if err := o.bridge.ShowGiftMenu(npc, player); err != nil {
		return out, errors.Wrap(err, "failed to open gift menu")
	}
	slog.Info("Opened bounty menu",
		"region", input.Region.String(),
		"category", input.Category.String(),
		"notes", len(out.Notes),
	)
	return out, nil
}

// EnqueueByNote queues the bounty whose note the player just received and
// takes the note back
func (o *orchestrator) EnqueueByNote(_ context.Context, input *EnqueueByNoteInput) (*EnqueueByNoteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	player := o.host.Player()
	if input.Container != player || !o.host.PlayerLoaded() {
		return &EnqueueByNoteOutput{}, nil
	}

	def, ok := o.catalog.FindByNote(input.Item)
	if !ok {
		return &EnqueueByNoteOutput{}, nil
	}

	o.enqueue(def)
	if err := o.host.RemoveItem(player, def.Note, 1); err != nil {
		slog.Warn("Failed to remove bounty note", "quest", def.Name, "error", err)
	}
	return &EnqueueByNoteOutput{Definition: def, Enqueued: true}, nil
}
