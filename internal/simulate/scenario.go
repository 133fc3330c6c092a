package simulate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/events"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
	"github.com/digital-apple/bounty-quests-ng/internal/loader"
	"github.com/digital-apple/bounty-quests-ng/internal/lookup"
	"github.com/digital-apple/bounty-quests-ng/internal/plugin"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/cosave"
)

// Scenario step operations
const (
	OpStartEvery  = "start_every"
	OpStartRandom = "start_random"
	OpMenu        = "menu"
	OpTake        = "take"
	OpCloseMenu   = "close_menu"
	OpDialogue    = "dialogue"
	OpMove        = "move"
	OpKill        = "kill"
	OpClaim       = "claim"
	OpReward      = "reward"
	OpSave        = "save"
	OpLoad        = "load"
)

// RunnerConfig holds the dependencies of a Runner
type RunnerConfig struct {
	Seeded *Seeded
	Plugin *plugin.Plugin
	Slots  cosave.Repository
}

// Validate ensures all required dependencies are provided
func (c *RunnerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Seeded == nil {
		vb.RequiredField("Seeded")
	}
	if c.Plugin == nil {
		vb.RequiredField("Plugin")
	}
	if c.Slots == nil {
		vb.RequiredField("Slots")
	}

	return vb.Build()
}

// StepResult reports one replayed step
type StepResult struct {
	Op     string
	Detail string
}

// Snapshot is the observable session state after a step
type Snapshot struct {
	Reserved      []entities.FormID
	Trackers      []entities.RegionTracker
	Inventory     map[entities.FormID]uint32
	Notifications []string
}

// Runner replays scenario steps against a plugin on a seeded world
type Runner struct {
	seeded *Seeded
	world  *sim.World
	plugin *plugin.Plugin
	slots  cosave.Repository
}

// NewRunner creates a scenario runner and connects the world's container
// notifications to the plugin's event bus
func NewRunner(cfg *RunnerConfig) (*Runner, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &Runner{
		seeded: cfg.Seeded,
		world:  cfg.Seeded.World,
		plugin: cfg.Plugin,
		slots:  cfg.Slots,
	}
	bus := cfg.Plugin.Bus()
	r.world.OnContainerChanged(func(c sim.ContainerChange) {
		err := events.PublishContainerChanged(context.Background(), bus, &events.ContainerChangeEntity{
			From:  c.From,
			To:    c.To,
			Item:  c.Item,
			Count: c.Count,
		})
		if err != nil {
			slog.Warn("Failed to publish container change", "item", c.Item.String(), "error", err)
		}
	})
	return r, nil
}

// Run replays every step of a scenario document: {"Steps": [{"Op": ...}]}.
// The first failing step stops the run.
func (r *Runner) Run(ctx context.Context, doc []byte) ([]StepResult, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.InvalidArgument("scenario is not valid JSON")
	}

	var results []StepResult
	var runErr error
	gjson.GetBytes(doc, "Steps").ForEach(func(key, step gjson.Result) bool {
		res, err := r.Step(ctx, step)
		if err != nil {
			runErr = errors.Wrapf(err, "step %d (%s)", key.Int()+1, step.Get("Op").String())
			return false
		}
		results = append(results, res)
		return true
	})
	return results, runErr
}

// Step replays one step and waits for the work it started
func (r *Runner) Step(ctx context.Context, step gjson.Result) (StepResult, error) {
	op := step.Get("Op").String()
	res := StepResult{Op: op}
	scripts := r.plugin.Scripting()

	var err error
	switch op {
	case OpStartEvery, OpStartRandom:
		var region entities.FormID
		if region, err = r.ref(step, "Region", entities.FormLocation); err != nil {
			return res, err
		}
		category := lookup.ParseCategory(step.Get("Category").String())
		if op == OpStartEvery {
			scripts.StartEveryQuest(ctx, region, int32(category))
		} else {
			scripts.StartRandomQuest(ctx, region, int32(category))
		}
		if err = r.settle(ctx); err != nil {
			return res, err
		}
		res.Detail = fmt.Sprintf("%d bounties reserved", len(r.plugin.Store().Reserved()))

	case OpMenu:
		var region entities.FormID
		if region, err = r.ref(step, "Region", entities.FormLocation); err != nil {
			return res, err
		}
		category := lookup.ParseCategory(step.Get("Category").String())
		scripts.ShowMenu(ctx, region, int32(category))
		menu, ok := r.world.GiftMenu()
		if !ok {
			return res, errors.FailedPreconditionf("menu did not open")
		}
		res.Detail = fmt.Sprintf("%d notes offered", len(menu.Items))

	case OpTake:
		var def *entities.QuestDefinition
		if def, err = r.definition(step); err != nil {
			return res, err
		}
		if err = r.world.TakeFromGiftMenu(def.Note); err != nil {
			return res, errors.Wrapf(err, "failed to take note of %s", def.Name)
		}
		res.Detail = def.Name

	case OpCloseMenu:
		r.world.CloseGiftMenu()
		if err = events.PublishMenu(ctx, r.plugin.Bus(), events.GiftMenu, false); err != nil {
			return res, err
		}
		if err = r.settle(ctx); err != nil {
			return res, err
		}
		res.Detail = fmt.Sprintf("%d bounties reserved", len(r.plugin.Store().Reserved()))

	case OpDialogue:
		if err = events.PublishMenu(ctx, r.plugin.Bus(), events.DialogueMenu, true); err != nil {
			return res, err
		}

	case OpMove:
		var loc entities.FormID
		if loc, err = r.ref(step, "Location", entities.FormLocation); err != nil {
			return res, err
		}
		player := r.world.Player()
		r.world.MovePlayer(loc)
		if err = events.PublishLocationChange(ctx, r.plugin.Bus(), player, entities.NoForm, loc); err != nil {
			return res, err
		}
		if err = r.settle(ctx); err != nil {
			return res, err
		}
		res.Detail = loc.String()

	case OpKill:
		var def *entities.QuestDefinition
		if def, err = r.definition(step); err != nil {
			return res, err
		}
		boss, ok := r.seeded.Bosses[def.Location]
		if !ok {
			return res, errors.NotFoundf("no boss in %s", def.Name)
		}
		r.world.Kill(boss)
		res.Detail = def.Name

	case OpClaim:
		var def *entities.QuestDefinition
		if def, err = r.definition(step); err != nil {
			return res, err
		}
		if def.ObjectiveIndex == 0 {
			return res, errors.FailedPreconditionf("%s is not active", def.Name)
		}
		scripts.UpdateReward(ctx, def.Quest, int32(def.ObjectiveIndex))
		res.Detail = def.Name

	case OpReward:
		var region entities.FormID
		if region, err = r.ref(step, "Region", entities.FormLocation); err != nil {
			return res, err
		}
		before := len(r.world.Notifications())
		scripts.RewardPlayer(ctx, region)
		res.Detail = strings.Join(r.world.Notifications()[before:], "; ")

	case OpSave:
		slot := step.Get("Slot").String()
		container := sim.NewContainer()
		if err = r.plugin.OnSave(container); err != nil {
			return res, err
		}
		if _, err = r.slots.Put(ctx, &cosave.PutInput{Name: slot, Blob: container.Marshal()}); err != nil {
			return res, err
		}
		res.Detail = slot

	case OpLoad:
		slot := step.Get("Slot").String()
		out, err := r.slots.Get(ctx, &cosave.GetInput{Name: slot})
		if err != nil {
			return res, err
		}
		container, err := sim.Unmarshal(out.Slot.Blob)
		if err != nil {
			return res, err
		}
		container.Rewind(r.world.ResolveSaved)
		r.plugin.OnRevert()
		if err := r.plugin.OnLoad(container); err != nil {
			return res, err
		}
		res.Detail = slot

	default:
		return res, errors.InvalidArgumentf("unknown step %q", op)
	}

	return res, nil
}

// Snapshot returns the session state
func (r *Runner) Snapshot() *Snapshot {
	trackers := r.plugin.Store().Trackers()
	sort.Slice(trackers, func(i, j int) bool { return trackers[i].Region < trackers[j].Region })
	return &Snapshot{
		Reserved:      r.plugin.Store().Reserved(),
		Trackers:      trackers,
		Inventory:     r.world.Inventory(r.world.Player()),
		Notifications: r.world.Notifications(),
	}
}

// settle waits until every batch and rebind submitted so far has run
func (r *Runner) settle(ctx context.Context) error {
	orchestrator, ok := r.plugin.Orchestrator()
	if !ok {
		return errors.FailedPreconditionf("data is not loaded")
	}
	out, err := orchestrator.RunQueue(ctx)
	if err != nil {
		return err
	}
	return out.Done.Wait(ctx)
}

func (r *Runner) ref(step gjson.Result, field string, kind entities.FormKind) (entities.FormID, error) {
	ref, err := loader.ParseFormRef(step.Get(field))
	if err != nil {
		return entities.NoForm, errors.Wrapf(err, "invalid %s", field)
	}
	return r.seeded.Resolve(ref, kind)
}

// definition finds the bounty of the step's Location
func (r *Runner) definition(step gjson.Result) (*entities.QuestDefinition, error) {
	loc, err := r.ref(step, "Location", entities.FormLocation)
	if err != nil {
		return nil, err
	}
	for _, def := range r.plugin.Definitions() {
		if def.Location == loc {
			return def, nil
		}
	}
	return nil, errors.NotFoundf("no bounty in %s", loc)
}
