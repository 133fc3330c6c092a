// Package events carries host notifications over an rpg-toolkit event bus
// and routes them to the quest orchestrator.
//
// The host side publishes MenuOpenClose, LocationChange and ContainerChanged
// events with the Publish helpers; Bridge subscribes to them and applies the
// player ownership checks before calling the orchestrator.
package events

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/core"
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
)

// Host notification event types
const (
	EventMenuOpenClose    = "menu.open_close"
	EventLocationChange   = "actor.location_change"
	EventContainerChanged = "container.changed"
)

// Menu names as the host reports them
const (
	GiftMenu     = "GiftMenu"
	DialogueMenu = "Dialogue Menu"
)

// MenuEntity is the payload of a menu open or close
type MenuEntity struct {
	Name    string
	Opening bool
}

// GetID returns the menu name
func (m *MenuEntity) GetID() string { return m.Name }

// GetType returns the entity type
func (m *MenuEntity) GetType() string { return "menu" }

// LocationChangeEntity is the payload of an actor changing location
type LocationChangeEntity struct {
	Actor entities.FormID
	From  entities.FormID
	To    entities.FormID
}

// GetID returns the actor id
func (l *LocationChangeEntity) GetID() string { return l.Actor.String() }

// GetType returns the entity type
func (l *LocationChangeEntity) GetType() string { return "location_change" }

// ContainerChangeEntity is the payload of an item moving between containers
type ContainerChangeEntity struct {
	From  entities.FormID
	To    entities.FormID
	Item  entities.FormID
	Count uint32
}

// GetID returns the item id
func (c *ContainerChangeEntity) GetID() string { return c.Item.String() }

// GetType returns the entity type
func (c *ContainerChangeEntity) GetType() string { return "container_change" }

// PublishMenu publishes a menu open or close
func PublishMenu(ctx context.Context, bus rpgevents.EventBus, name string, opening bool) error {
	return publish(ctx, bus, EventMenuOpenClose, &MenuEntity{Name: name, Opening: opening})
}

// PublishLocationChange publishes an actor's move between locations
func PublishLocationChange(ctx context.Context, bus rpgevents.EventBus, actor, from, to entities.FormID) error {
	return publish(ctx, bus, EventLocationChange, &LocationChangeEntity{Actor: actor, From: from, To: to})
}

// PublishContainerChanged publishes an item moving between containers
func PublishContainerChanged(ctx context.Context, bus rpgevents.EventBus, change *ContainerChangeEntity) error {
	if change == nil {
		return errors.InvalidArgument("change is required")
	}
	return publish(ctx, bus, EventContainerChanged, change)
}

func publish(ctx context.Context, bus rpgevents.EventBus, eventType string, payload core.Entity) error {
	if bus == nil {
		return errors.InvalidArgument("bus is required")
	}
	if err := bus.Publish(ctx, rpgevents.NewGameEvent(eventType, payload, nil)); err != nil {
		return errors.Wrapf(err, "failed to publish %s", eventType)
	}
	return nil
}
