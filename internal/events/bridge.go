package events

import (
	"context"
	"log/slog"
	"sync"

	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/orchestrators/bounty"
)

// Config holds the dependencies of the event bridge
type Config struct {
	Orchestrator bounty.Service
	Host         host.Host
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Orchestrator == nil {
		vb.RequiredField("Orchestrator")
	}
	if c.Host == nil {
		vb.RequiredField("Host")
	}

	return vb.Build()
}

// Bridge routes host notifications to the orchestrator. Handlers never fail
// the publish: errors are logged and dropped.
type Bridge struct {
	orchestrator bounty.Service
	host         host.Host

	mu   sync.Mutex
	bus  rpgevents.EventBus
	subs []string
}

// New creates an event bridge
func New(cfg *Config) (*Bridge, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Bridge{
		orchestrator: cfg.Orchestrator,
		host:         cfg.Host,
	}, nil
}

// Register subscribes the bridge to the host notifications on bus. A
// bridge registers on one bus at a time; registering again moves it.
func (b *Bridge) Register(bus rpgevents.EventBus) error {
	if bus == nil {
		return errors.InvalidArgument("bus is required")
	}
	if err := b.Unregister(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.bus = bus
	b.subs = []string{
		bus.SubscribeFunc(EventMenuOpenClose, 0, b.onMenu),
		bus.SubscribeFunc(EventLocationChange, 0, b.onLocationChange),
		bus.SubscribeFunc(EventContainerChanged, 0, b.onContainerChanged),
	}
	slog.Info("Registered event handlers", "count", len(b.subs))
	return nil
}

// Unregister removes the bridge's subscriptions
func (b *Bridge) Unregister() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bus == nil {
		return nil
	}

	var firstErr error
	for _, id := range b.subs {
		if err := b.bus.Unsubscribe(id); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "failed to unsubscribe %s", id)
		}
	}
	b.bus = nil
	b.subs = nil
	return firstErr
}

func (b *Bridge) onMenu(ctx context.Context, e rpgevents.Event) error {
	menu, ok := e.Source().(*MenuEntity)
	if !ok {
		slog.Warn("Unexpected menu event payload", "event", e.Type())
		return nil
	}

	switch {
	case menu.Name == GiftMenu && !menu.Opening:
		out, err := b.orchestrator.RunQueue(ctx)
		if err != nil {
			slog.Warn("Failed to run bounty queue", "error", err)
			return nil
		}
		slog.Debug("Gift menu closed", "batch", out.BatchID)
	case menu.Name == DialogueMenu && menu.Opening:
		if _, err := b.orchestrator.RefreshRegionFlags(ctx); err != nil {
			slog.Warn("Failed to refresh region flags", "error", err)
		}
	}
	return nil
}

func (b *Bridge) onLocationChange(ctx context.Context, e rpgevents.Event) error {
	change, ok := e.Source().(*LocationChangeEntity)
	if !ok {
		slog.Warn("Unexpected location event payload", "event", e.Type())
		return nil
	}
	if change.Actor != b.host.Player() || change.To.IsNone() {
		return nil
	}

	if _, err := b.orchestrator.RebindRegion(ctx, &bounty.RebindRegionInput{Location: change.To}); err != nil {
		slog.Warn("Failed to rebind region",
			"location", change.To.String(),
			"error", err,
		)
	}
	return nil
}

func (b *Bridge) onContainerChanged(ctx context.Context, e rpgevents.Event) error {
	change, ok := e.Source().(*ContainerChangeEntity)
	if !ok {
		slog.Warn("Unexpected container event payload", "event", e.Type())
		return nil
	}
	if change.To != b.host.Player() {
		return nil
	}

	out, err := b.orchestrator.EnqueueByNote(ctx, &bounty.EnqueueByNoteInput{
		Item:      change.Item,
		Container: change.To,
	})
	if err != nil {
		slog.Warn("Failed to queue bounty by note",
			"item", change.Item.String(),
			"error", err,
		)
		return nil
	}
	if out.Enqueued {
		slog.Debug("Queued bounty from note", "quest", out.Definition.Name)
	}
	return nil
}
