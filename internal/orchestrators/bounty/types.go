package bounty

import (
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/worker"
)

// SelectInput picks the bounties of a region. CategoryNone matches every
// category.
type SelectInput struct {
	Region   entities.FormID
	Category entities.Category
}

// SelectOutput lists what was queued and the batch that will activate it.
// Batch is nil when nothing was queued.
type SelectOutput struct {
	Enqueued []*entities.QuestDefinition
	Batch    *RunQueueOutput
}

// RunQueueOutput tracks one activation batch. Report is complete once Done
// has finished.
type RunQueueOutput struct {
	BatchID string
	Done    *worker.Future
	Report  *BatchReport
}

// BatchReport is the outcome of every activation attempted in a batch
type BatchReport struct {
	ID      string
	Results []ActivationResult
}

// Bound returns the results that reached the active state
func (r *BatchReport) Bound() []ActivationResult {
	var out []ActivationResult
	for _, res := range r.Results {
		if res.State == entities.StateActive {
			out = append(out, res)
		}
	}
	return out
}

// ActivationResult is the outcome of one activation attempt
type ActivationResult struct {
	Definition *entities.QuestDefinition
	State      entities.ActivationState
	Attempts   int
	Actor      entities.FormID
	AliasID    uint32
	Err        error
}

// RewardClaimInput names the objective the player turned in
type RewardClaimInput struct {
	Quest entities.FormID
	Index uint16
}

// RewardClaimOutput returns the definition that completed
type RewardClaimOutput struct {
	Definition *entities.QuestDefinition
}

// GrantRewardInput names the region whose tracker is paid out
type GrantRewardInput struct {
	Region entities.FormID
}

// Grant is one item stack given to the player
type Grant struct {
	Item       entities.FormID
	Name       string
	Difficulty entities.Difficulty
	Quantity   uint32
}

// GrantRewardOutput lists the stacks granted
type GrantRewardOutput struct {
	Grants []Grant
}

// RefreshRegionFlagsOutput is the per-category presence computed for the
// player's current region
type RefreshRegionFlagsOutput struct {
	Flags map[entities.Category]bool
}

// ShowMenuInput selects the notes offered by the menu NPC
type ShowMenuInput struct {
	Region   entities.FormID
	Category entities.Category
}

// ShowMenuOutput lists the notes placed in the menu
type ShowMenuOutput struct {
	Notes []entities.FormID
}

// EnqueueByNoteInput describes an item arriving in a container
type EnqueueByNoteInput struct {
	Item      entities.FormID
	Container entities.FormID
}

// EnqueueByNoteOutput returns the definition the note started, if any
type EnqueueByNoteOutput struct {
	Definition *entities.QuestDefinition
	Enqueued   bool
}

// RebindRegionInput is the location the player entered
type RebindRegionInput struct {
	Location entities.FormID
}

// RebindRegionOutput names the tracked region found and the job rebinding
// the catalogue to it. Done is nil when no tracked region encloses the
// location.
type RebindRegionOutput struct {
	Region entities.FormID
	Done   *worker.Future
}
