// Package catalog holds the quest definitions parsed at content load and the
// queue of definitions waiting for activation.
package catalog

import (
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// Repository defines the quest catalog
type Repository interface {
	// Add appends definitions; load order is preserved
	Add(defs ...*entities.QuestDefinition)

	// Definitions returns every definition in load order
	Definitions() []*entities.QuestDefinition

	// Find returns the definitions of a region matching a category filter.
	// CategoryNone matches every category.
	Find(region entities.FormID, category entities.Category) []*entities.QuestDefinition

	// FindByNote returns the definition whose reward note is note
	FindByNote(note entities.FormID) (*entities.QuestDefinition, bool)

	// FindByObjective returns the first definition bound to objective index
	// of quest
	FindByObjective(quest entities.FormID, index uint16) (*entities.QuestDefinition, bool)

	// FindAllByObjective returns every definition bound to objective index of
	// quest, in load order. An alias slot is reused once its bounty is
	// claimed, so more than one definition can hold the same index.
	FindAllByObjective(quest entities.FormID, index uint16) []*entities.QuestDefinition

	// SetObjectiveIndex records the objective a quest/location pair is bound to
	SetObjectiveIndex(quest, location entities.FormID, index uint16) bool

	// ClearObjectiveIndex unbinds a definition from its objective
	ClearObjectiveIndex(def *entities.QuestDefinition)

	// ObjectiveIndex returns the bound objective index of a definition
	ObjectiveIndex(def *entities.QuestDefinition) uint16

	// Enqueue appends definitions to the work queue
	Enqueue(defs ...*entities.QuestDefinition)

	// Drain returns the work queue and clears it in one step
	Drain() []*entities.QuestDefinition

	// QueueLen returns the number of queued definitions
	QueueLen() int

	// Len returns the number of definitions
	Len() int
}
