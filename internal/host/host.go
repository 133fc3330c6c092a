// Package host declares what the module needs from the game engine it runs in.
//
// Host covers the engine's public object model. Bridge covers the operations
// with no public entry point, which are reached through version-specific
// addresses (see package offsets). Both are consumed through these interfaces
// so the orchestration logic can run against the simulated host in tests.
package host

//go:generate mockgen -destination=mock/mock_bridge.go -package=hostmock github.com/digital-apple/bounty-quests-ng/internal/host Bridge

import (
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// ObjectiveState mirrors the host quest objective display states.
type ObjectiveState uint8

// Objective states, numbered as the host numbers them.
const (
	ObjectiveDormant ObjectiveState = iota
	ObjectiveDisplayed
	ObjectiveCompleted
	ObjectiveCompletedDisplayed
	ObjectiveFailed
	ObjectiveFailedDisplayed
)

// Displayed reports whether the state has the displayed bit set
func (s ObjectiveState) Displayed() bool {
	switch s {
	case ObjectiveDisplayed, ObjectiveCompletedDisplayed, ObjectiveFailedDisplayed:
		return true
	default:
		return false
	}
}

// AliasKind distinguishes reference aliases from location aliases
type AliasKind uint8

// Alias kinds
const (
	AliasReference AliasKind = iota
	AliasLocation
)

// Alias is one binding slot of a host quest
type Alias struct {
	ID   uint32
	Kind AliasKind
}

// NoteSpec describes a dynamically created book form
type NoteSpec struct {
	Name        string
	Model       entities.FormID
	PickupSound entities.FormID
}

// Forms resolves and creates host forms
type Forms interface {
	// LookupForm resolves a plugin-local reference to a runtime id
	LookupForm(ref entities.FormRef, kind entities.FormKind) (entities.FormID, bool)
	// FormExists reports whether a runtime id is live and of the given kind
	FormExists(id entities.FormID, kind entities.FormKind) bool
	// FormName returns the display name of a form
	FormName(id entities.FormID) string
	// CreateNote creates a book form through the host's form factory
	CreateNote(note NoteSpec) (entities.FormID, error)
}

// Quests drives the host quest engine
type Quests interface {
	IsRunning(quest entities.FormID) bool
	Start(quest entities.FormID) error
	Stop(quest entities.FormID) error
	// EnsureStarted starts the quest if needed and reports whether it runs
	EnsureStarted(quest entities.FormID) (bool, error)

	Aliases(quest entities.FormID) []Alias
	// AliasActor returns the actor held by a reference alias, NoForm if empty
	AliasActor(quest entities.FormID, aliasID uint32) entities.FormID
	// AliasLocation returns the location held by a location alias, NoForm if empty
	AliasLocation(quest entities.FormID, aliasID uint32) entities.FormID

	ObjectiveState(quest entities.FormID, index uint16) (ObjectiveState, bool)
	SetObjectiveText(quest entities.FormID, index uint16, text string) error
}

// World answers questions about locations and references
type World interface {
	// ParentLocation returns the enclosing location, NoForm at the root
	ParentLocation(location entities.FormID) entities.FormID
	// WorldMarker returns the location's own map marker reference, if any
	WorldMarker(location entities.FormID) entities.FormID
	// SpecialRef returns the location's registered reference of a type, if any
	SpecialRef(location, refType entities.FormID) entities.FormID
	SetMapMarkerVisible(ref entities.FormID) error

	IsDead(actor entities.FormID) bool
	IsDisabled(actor entities.FormID) bool
}

// Actors covers the player and container operations
type Actors interface {
	Player() entities.FormID
	// PlayerLoaded reports whether the player's 3D is loaded
	PlayerLoaded() bool
	AddItem(container, item entities.FormID, count uint32) error
	RemoveItem(container, item entities.FormID, count uint32) error
	ResetInventory(container entities.FormID) error
}

// Interface covers notifications, sounds and game settings
type Interface interface {
	Notify(text string)
	PlaySound(editorID string)
	GameSetting(name string) (string, bool)
}

// Globals reads and writes host global variables
type Globals interface {
	Global(id entities.FormID) (float32, bool)
	SetGlobal(id entities.FormID, value float32) error
}

// Host is the engine's public object model
type Host interface {
	Forms
	Quests
	World
	Actors
	Interface
	Globals
}

// Bridge holds the operations the host exposes no public entry point for.
// The production implementation calls them through version-specific
// addresses; see package offsets.
type Bridge interface {
	// SetQuestLocation writes a location directly into a location alias slot
	SetQuestLocation(quest entities.FormID, aliasID uint32, location entities.FormID) error
	// ForceBindActor binds an actor into a reference alias, bypassing the
	// host's own alias fill rules
	ForceBindActor(quest entities.FormID, aliasID uint32, actor entities.FormID) error
	// IsEditorLocation reports whether the actor's editor location is within location
	IsEditorLocation(location, actor entities.FormID) (bool, error)
	// CountAliveOfType counts living references of a ref type in a location
	CountAliveOfType(location, refType entities.FormID) (uint32, error)
	SetObjectiveState(quest entities.FormID, index uint16, state ObjectiveState) error
	// ShowGiftMenu opens the gift menu between two references
	ShowGiftMenu(target, source entities.FormID) error
}
