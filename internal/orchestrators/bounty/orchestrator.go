// Package bounty implements the quest orchestrator: bounty selection, the
// alias binding protocol that activates a bounty, reward claims and the
// region-driven menu and flag updates.
package bounty

//go:generate mockgen -destination=mock/mock_service.go -package=bountymock github.com/digital-apple/bounty-quests-ng/internal/orchestrators/bounty Service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/lookup"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/idgen"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/worker"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/catalog"
	"github.com/digital-apple/bounty-quests-ng/internal/serialization"
)

const (
	// DefaultAttempts bounds the binding and rebinding loops
	DefaultAttempts = 5
	// DefaultInterval is the wait for the host to fill aliases
	DefaultInterval = 250 * time.Millisecond

	// Alias slots of the alias generator quest
	generatorLocationAlias uint32 = 0
	generatorActorAlias    uint32 = 1

	// Location alias of the catalogue quest
	catalogueLocationAlias uint32 = 0

	// Base "turn in" objective of every bounty quest
	turnInObjective uint16 = 0

	addedToInventorySetting = "sAddItemtoInventory"
	rewardSound             = "ITMGoldUpSD"
)

// Service defines the orchestrator operations
type Service interface {
	// Selection
	SelectByCategory(ctx context.Context, input *SelectInput) (*SelectOutput, error)
	SelectRandom(ctx context.Context, input *SelectInput) (*SelectOutput, error)
	RunQueue(ctx context.Context) (*RunQueueOutput, error)

	// Completion and rewards
	OnRewardClaimed(ctx context.Context, input *RewardClaimInput) (*RewardClaimOutput, error)
	GrantReward(ctx context.Context, input *GrantRewardInput) (*GrantRewardOutput, error)

	// Region driven updates
	RefreshRegionFlags(ctx context.Context) (*RefreshRegionFlagsOutput, error)
	ShowMenu(ctx context.Context, input *ShowMenuInput) (*ShowMenuOutput, error)
	EnqueueByNote(ctx context.Context, input *EnqueueByNoteInput) (*EnqueueByNoteOutput, error)
	RebindRegion(ctx context.Context, input *RebindRegionInput) (*RebindRegionOutput, error)

	// State returns the last activation state of a definition
	State(def *entities.QuestDefinition) (entities.ActivationState, bool)
}

// Config holds the dependencies of the orchestrator
type Config struct {
	Host     host.Host
	Bridge   host.Bridge
	Catalog  catalog.Repository
	Store    *serialization.Store
	Lookup   *lookup.Catalog
	Texts    *lookup.Texts
	Rewards  []*entities.RewardRule
	Forms    entities.PluginForms // runtime ids
	Executor *worker.Serial

	DiceRoller  dice.Roller
	Clock       clock.Clock
	IDGenerator idgen.Generator
	// EventBus receives bounty lifecycle events when set
	EventBus events.EventBus

	BindAttempts   int
	BindInterval   time.Duration
	RebindAttempts int
	RebindInterval time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Host == nil {
		vb.RequiredField("Host")
	}
	if c.Bridge == nil {
		vb.RequiredField("Bridge")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Lookup == nil {
		vb.RequiredField("Lookup")
	}
	if c.Texts == nil {
		vb.RequiredField("Texts")
	}
	if c.Executor == nil {
		vb.RequiredField("Executor")
	}
	if c.Forms.AliasGenerator.IsNone() {
		vb.RequiredField("Forms.AliasGenerator")
	}
	if c.Forms.Catalogue.IsNone() {
		vb.RequiredField("Forms.Catalogue")
	}
	if c.Forms.MenuNPC.IsNone() {
		vb.RequiredField("Forms.MenuNPC")
	}
	errors.ValidateNotNegative("BindAttempts", c.BindAttempts, vb)
	errors.ValidateNotNegative("RebindAttempts", c.RebindAttempts, vb)
	errors.ValidateNotNegative("BindInterval", c.BindInterval, vb)
	errors.ValidateNotNegative("RebindInterval", c.RebindInterval, vb)

	return vb.Build()
}

type orchestrator struct {
	host     host.Host
	bridge   host.Bridge
	catalog  catalog.Repository
	store    *serialization.Store
	lookup   *lookup.Catalog
	texts    *lookup.Texts
	rewards  []*entities.RewardRule
	forms    entities.PluginForms
	executor *worker.Serial
	roller   dice.Roller
	clock    clock.Clock
	idGen    idgen.Generator
	bus      events.EventBus

	bindAttempts   int
	bindInterval   time.Duration
	rebindAttempts int
	rebindInterval time.Duration

	mu     sync.Mutex
	states map[*entities.QuestDefinition]entities.ActivationState
}

// NewOrchestrator creates a new bounty orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		host:           cfg.Host,
		bridge:         cfg.Bridge,
		catalog:        cfg.Catalog,
		store:          cfg.Store,
		lookup:         cfg.Lookup,
		texts:          cfg.Texts,
		rewards:        cfg.Rewards,
		forms:          cfg.Forms,
		executor:       cfg.Executor,
		roller:         cfg.DiceRoller,
		clock:          cfg.Clock,
		idGen:          cfg.IDGenerator,
		bus:            cfg.EventBus,
		bindAttempts:   cfg.BindAttempts,
		bindInterval:   cfg.BindInterval,
		rebindAttempts: cfg.RebindAttempts,
		rebindInterval: cfg.RebindInterval,
		states:         make(map[*entities.QuestDefinition]entities.ActivationState),
	}

	if o.roller == nil {
		o.roller = dice.DefaultRoller
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.idGen == nil {
		o.idGen = idgen.NewUUID("batch")
	}
	if o.bindAttempts == 0 {
		o.bindAttempts = DefaultAttempts
	}
	if o.rebindAttempts == 0 {
		o.rebindAttempts = DefaultAttempts
	}

	return o, nil
}

// State returns the last activation state of a definition
func (o *orchestrator) State(def *entities.QuestDefinition) (entities.ActivationState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	state, ok := o.states[def]
	return state, ok
}

func (o *orchestrator) setState(def *entities.QuestDefinition, state entities.ActivationState) {
	o.mu.Lock()
	o.states[def] = state
	o.mu.Unlock()

	slog.Debug("Bounty state changed", "quest", def.Name, "state", state.String())
}

// candidates returns the unreserved definitions of a region and category
func (o *orchestrator) candidates(region entities.FormID, category entities.Category) []*entities.QuestDefinition {
	var out []*entities.QuestDefinition
	for _, def := range o.catalog.Find(region, category) {
		if o.store.IsReserved(def.Location) {
			continue
		}
		out = append(out, def)
	}
	return out
}

func (o *orchestrator) enqueue(defs ...*entities.QuestDefinition) {
	o.catalog.Enqueue(defs...)
	for _, def := range defs {
		slog.Info("Queued bounty", "quest", def.Name, "location", def.Location.String())
		o.setState(def, entities.StateQueued)
	}
}

// SelectByCategory queues every unreserved bounty of the region and category
func (o *orchestrator) SelectByCategory(ctx context.Context, input *SelectInput) (*SelectOutput, error) {
	if input == nil || input.Region.IsNone() {
		return nil, errors.InvalidArgument("region is required")
	}

	defs := o.candidates(input.Region, input.Category)
	slog.Info("Starting every available bounty",
		"region", input.Region.String(),
		"category", input.Category.String(),
		"count", len(defs),
	)
	if len(defs) == 0 {
		return &SelectOutput{}, nil
	}

	o.enqueue(defs...)
	batch, err := o.RunQueue(ctx)
	if err != nil {
		return nil, err
	}
	return &SelectOutput{Enqueued: defs, Batch: batch}, nil
}

// SelectRandom queues one unreserved bounty of the region and category,
// chosen uniformly. An empty candidate set queues nothing.
func (o *orchestrator) SelectRandom(ctx context.Context, input *SelectInput) (*SelectOutput, error) {
	if input == nil || input.Region.IsNone() {
		return nil, errors.InvalidArgument("region is required")
	}

	defs := o.candidates(input.Region, input.Category)
	if len(defs) == 0 {
		slog.Warn("No bounty available for random selection",
			"region", input.Region.String(),
			"category", input.Category.String(),
		)
		return &SelectOutput{}, nil
	}

	roll, err := o.roller.Roll(len(defs))
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll for bounty")
	}
	if roll < 1 || roll > len(defs) {
		return nil, errors.Internalf("roll %d outside 1..%d", roll, len(defs))
	}

	def := defs[roll-1]
	slog.Info("Starting random bounty",
		"region", input.Region.String(),
		"category", input.Category.String(),
		"quest", def.Name,
	)

	o.enqueue(def)
	batch, err := o.RunQueue(ctx)
	if err != nil {
		return nil, err
	}
	return &SelectOutput{Enqueued: []*entities.QuestDefinition{def}, Batch: batch}, nil
}

// RunQueue submits an activation batch. The batch drains the work queue
// when it starts, so triggers that arrive while another batch runs are
// picked up by the next one.
func (o *orchestrator) RunQueue(_ context.Context) (*RunQueueOutput, error) {
	report := &BatchReport{ID: o.idGen.Generate()}
	done := o.executor.Submit("activation "+report.ID, func(ctx context.Context) error {
		return o.runBatch(ctx, report)
	})
	return &RunQueueOutput{BatchID: report.ID, Done: done, Report: report}, nil
}

func (o *orchestrator) runBatch(ctx context.Context, report *BatchReport) error {
	queue := o.catalog.Drain()
	slog.Info("Activating queued bounties", "batch", report.ID, "count", len(queue))

	for _, def := range queue {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "batch %s interrupted", report.ID)
		}
		report.Results = append(report.Results, o.activate(ctx, def))
	}
	return nil
}

// completeObjective marks objective index completed and then dormant on
// every quest hosting a bounty of the region
func (o *orchestrator) completeObjective(region entities.FormID, index uint16) {
	seen := make(map[entities.FormID]bool)
	for _, def := range o.catalog.Find(region, entities.CategoryNone) {
		if seen[def.Quest] {
			continue
		}
		seen[def.Quest] = true

		if _, ok := o.host.ObjectiveState(def.Quest, index); !ok {
			continue
		}
		for _, state := range []host.ObjectiveState{host.ObjectiveCompletedDisplayed, host.ObjectiveDormant} {
			if err := o.bridge.SetObjectiveState(def.Quest, index, state); err != nil {
				slog.Warn("Failed to set objective state",
					"quest", def.Quest.String(),
					"index", index,
					"error", err,
				)
				break
			}
		}
	}
}
