// Package plugin wires the module together for a host: it resolves the
// native offsets at construction, loads the data files once the host has
// loaded its own content, and forwards the save callbacks to the
// persistence layer.
package plugin

import (
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/digital-apple/bounty-quests-ng/internal/config"
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/events"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/host/offsets"
	"github.com/digital-apple/bounty-quests-ng/internal/loader"
	"github.com/digital-apple/bounty-quests-ng/internal/lookup"
	"github.com/digital-apple/bounty-quests-ng/internal/orchestrators/bounty"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/idgen"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/worker"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/catalog"
	"github.com/digital-apple/bounty-quests-ng/internal/scripting"
	"github.com/digital-apple/bounty-quests-ng/internal/serialization"
)

// Data files read from the data directory
const (
	RewardsFile  = "Rewards.json"
	TrackersFile = "Trackers.json"
	TextsFile    = "Texts.json"
)

// Native describes the running host the production bridge is built for
type Native struct {
	Version  string
	Library  offsets.AddressLibrary
	Invoker  offsets.Invoker
	Resolver offsets.ObjectResolver
}

// Config holds the dependencies of the plugin
type Config struct {
	Settings *config.Config
	Host     host.Host

	// Bridge is used as is when set; otherwise one is built from Native
	Bridge host.Bridge
	Native *Native

	// Optional, defaulted in New
	Bus         rpgevents.EventBus
	Clock       clock.Clock
	DiceRoller  dice.Roller
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Settings == nil {
		vb.RequiredField("Settings")
	}
	if c.Host == nil {
		vb.RequiredField("Host")
	}
	if c.Bridge == nil && c.Native == nil {
		vb.Field("Bridge", "a bridge or a native runtime is required")
	}

	return vb.Build()
}

// LoadSummary counts what OnDataLoaded read
type LoadSummary struct {
	Definitions int
	Rewards     int
	Trackers    int
	Texts       int
}

// Plugin is the module as seen by the host
type Plugin struct {
	settings  *config.Config
	host      host.Host
	bridge    host.Bridge
	lookup    *lookup.Catalog
	texts     *lookup.Texts
	catalog   *catalog.InMemoryRepository
	store     *serialization.Store
	executor  *worker.Serial
	bus       rpgevents.EventBus
	scripting *scripting.Bridge
	clock     clock.Clock
	roller    dice.Roller
	ids       idgen.Generator

	mu           sync.Mutex
	orchestrator bounty.Service
	events       *events.Bridge
}

// New builds the plugin. An unsupported host version is fatal: the error
// carries FailedPrecondition and the host must not load the module.
func New(cfg *Config) (*Plugin, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	bridge := cfg.Bridge
	if bridge == nil {
		native, err := newNativeBridge(cfg.Native)
		if err != nil {
			return nil, err
		}
		bridge = native
	}

	entityCatalog, err := lookup.New(&lookup.Config{Forms: cfg.Host})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create entity catalog")
	}

	quests := catalog.NewInMemory()
	store, err := serialization.New(&serialization.Config{
		Host:               cfg.Host,
		Catalog:            quests,
		ClearGlobalOnClaim: cfg.Settings.ClearGlobalOnClaim,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create store")
	}

	executor, err := worker.NewSerial(&worker.Config{Name: "bounty"})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start executor")
	}

	bus := cfg.Bus
	if bus == nil {
		bus = rpgevents.NewBus()
	}

	return &Plugin{
		settings:  cfg.Settings,
		host:      cfg.Host,
		bridge:    bridge,
		lookup:    entityCatalog,
		texts:     lookup.NewTexts(),
		catalog:   quests,
		store:     store,
		executor:  executor,
		bus:       bus,
		scripting: scripting.New(),
		clock:     cfg.Clock,
		roller:    cfg.DiceRoller,
		ids:       cfg.IDGenerator,
	}, nil
}

func newNativeBridge(n *Native) (host.Bridge, error) {
	resolved, err := offsets.Resolve(n.Version, n.Library)
	if errors.IsFatal(err) {
		slog.Error("Unsupported host runtime, staying inert", "version", n.Version, "error", err)
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve offsets for %s", n.Version)
	}
	native, err := offsets.NewNative(&offsets.NativeConfig{
		Offsets:  resolved,
		Invoker:  n.Invoker,
		Resolver: n.Resolver,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create native bridge")
	}
	return native, nil
}

// OnDataLoaded reads the data files and starts handling host events and
// script calls. It runs once; the plugin stays inert if the plugin's own
// forms cannot be found.
func (p *Plugin) OnDataLoaded() (*LoadSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.orchestrator != nil {
		return nil, errors.FailedPreconditionf("data already loaded from %s", p.settings.DataDir)
	}

	forms, err := p.lookup.ResolvePluginForms(p.settings.PluginForms())
	if err != nil {
		slog.Error("Plugin forms not found", "plugin", p.settings.PluginFile, "error", err)
		return nil, errors.Wrap(err, "failed to resolve plugin forms")
	}

	ld, err := loader.New(&loader.Config{Host: p.host, Lookup: p.lookup, Forms: forms})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create loader")
	}

	summary := &LoadSummary{}

	defs, err := ld.ParseQuestDefinitions(p.settings.QuestsDir())
	if err != nil {
		slog.Warn("No quest definitions loaded", "dir", p.settings.QuestsDir(), "error", err)
	}
	p.catalog.Add(defs...)
	summary.Definitions = len(defs)

	rewards, err := ld.ParseRewards(p.settings.DataFile(RewardsFile))
	if err != nil {
		slog.Warn("No rewards loaded", "error", err)
	}
	summary.Rewards = len(rewards)

	trackers, err := ld.ParseTrackers(p.settings.DataFile(TrackersFile))
	if err != nil {
		slog.Warn("No trackers loaded", "error", err)
	}
	for _, t := range trackers {
		if err := p.store.AddTracker(t); err != nil {
			slog.Warn("Dropping tracker", "region", t.Region.String(), "error", err)
			continue
		}
		summary.Trackers++
	}

	if err := ld.ParseTexts(p.settings.DataFile(TextsFile), p.texts); err != nil {
		slog.Warn("No texts loaded", "error", err)
	}
	summary.Texts = p.texts.Len()

	orchestrator, err := bounty.NewOrchestrator(&bounty.Config{
		Host:           p.host,
		Bridge:         p.bridge,
		Catalog:        p.catalog,
		Store:          p.store,
		Lookup:         p.lookup,
		Texts:          p.texts,
		Rewards:        rewards,
		Forms:          forms,
		Executor:       p.executor,
		DiceRoller:     p.roller,
		Clock:          p.clock,
		IDGenerator:    p.ids,
		EventBus:       p.bus,
		BindAttempts:   p.settings.BindAttempts,
		BindInterval:   p.settings.BindInterval,
		RebindAttempts: p.settings.RebindAttempts,
		RebindInterval: p.settings.RebindInterval,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create orchestrator")
	}

	bridge, err := events.New(&events.Config{Orchestrator: orchestrator, Host: p.host})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create event bridge")
	}
	if err := bridge.Register(p.bus); err != nil {
		return nil, errors.Wrap(err, "failed to register event handlers")
	}

	p.orchestrator = orchestrator
	p.events = bridge
	p.scripting.Attach(orchestrator)

	slog.Info("Loaded bounty data",
		"definitions", summary.Definitions,
		"rewards", summary.Rewards,
		"trackers", summary.Trackers,
		"texts", summary.Texts,
	)
	return summary, nil
}

// OnSave writes the module state into the save
func (p *Plugin) OnSave(w host.SaveWriter) error {
	if err := p.store.Save(w); err != nil {
		slog.Error("Failed to save bounty state", "error", err)
		return err
	}
	return nil
}

// OnLoad restores the module state from a save
func (p *Plugin) OnLoad(r host.SaveReader) error {
	if err := p.store.Load(r); err != nil {
		slog.Error("Failed to load bounty state", "error", err)
		return err
	}
	return nil
}

// OnRevert resets the per-save state before a save is loaded
func (p *Plugin) OnRevert() {
	p.store.Revert()
}

// Scripting returns the native functions bound to the host's scripts
func (p *Plugin) Scripting() *scripting.Bridge {
	return p.scripting
}

// Bus returns the bus host notifications are published on
func (p *Plugin) Bus() rpgevents.EventBus {
	return p.bus
}

// Store returns the persistent state
func (p *Plugin) Store() *serialization.Store {
	return p.store
}

// Definitions returns the loaded quest definitions
func (p *Plugin) Definitions() []*entities.QuestDefinition {
	return p.catalog.Definitions()
}

// Orchestrator returns the orchestrator once the data is loaded
func (p *Plugin) Orchestrator() (bounty.Service, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.orchestrator, p.orchestrator != nil
}

// Close stops handling events and script calls, cancels the running batch
// and drops queued ones
func (p *Plugin) Close() error {
	p.scripting.Attach(nil)

	p.mu.Lock()
	bridge := p.events
	p.events = nil
	p.mu.Unlock()

	var firstErr error
	if bridge != nil {
		if err := bridge.Unregister(); err != nil {
			firstErr = err
		}
	}
	if err := p.executor.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "failed to stop executor")
	}
	return firstErr
}
