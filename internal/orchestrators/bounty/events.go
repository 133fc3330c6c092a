package bounty

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// Lifecycle events published on the configured bus
const (
	EventActivated = "bounty.activated"
	EventAbandoned = "bounty.abandoned"
	EventCompleted = "bounty.completed"
	EventRewarded  = "bounty.rewarded"
)

// BountyEntity carries a definition on lifecycle events
type BountyEntity struct {
	Definition *entities.QuestDefinition
}

// GetID returns the bounty location id
func (b *BountyEntity) GetID() string {
	return b.Definition.Location.String()
}

// GetType returns the entity type
func (b *BountyEntity) GetType() string {
	return "bounty"
}

// RegionEntity carries a region on reward events
type RegionEntity struct {
	Region entities.FormID
}

// GetID returns the region id
func (r *RegionEntity) GetID() string {
	return r.Region.String()
}

// GetType returns the entity type
func (r *RegionEntity) GetType() string {
	return "region"
}

func (o *orchestrator) publish(ctx context.Context, eventType string, def *entities.QuestDefinition) {
	if o.bus == nil {
		return
	}
	e := events.NewGameEvent(eventType, &BountyEntity{Definition: def}, &RegionEntity{Region: def.Region})
	if err := o.bus.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish bounty event", "event", eventType, "quest", def.Name, "error", err)
	}
}

func (o *orchestrator) publishRegion(ctx context.Context, eventType string, region entities.FormID) {
	if o.bus == nil {
		return
	}
	e := events.NewGameEvent(eventType, &RegionEntity{Region: region}, nil)
	if err := o.bus.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish region event", "event", eventType, "region", region.String(), "error", err)
	}
}
