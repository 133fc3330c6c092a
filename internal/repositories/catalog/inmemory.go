package catalog

import (
	"sync"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// InMemoryRepository implements Repository with a slice and a mutex
type InMemoryRepository struct {
	mu    sync.RWMutex
	defs  []*entities.QuestDefinition
	queue []*entities.QuestDefinition
}

// NewInMemory creates an empty catalog
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Add appends definitions
func (r *InMemoryRepository) Add(defs ...*entities.QuestDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range defs {
		if def != nil {
			r.defs = append(r.defs, def)
		}
	}
}

// Definitions returns every definition in load order
func (r *InMemoryRepository) Definitions() []*entities.QuestDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*entities.QuestDefinition(nil), r.defs...)
}

// Find filters by region and category
func (r *InMemoryRepository) Find(region entities.FormID, category entities.Category) []*entities.QuestDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.QuestDefinition
	for _, def := range r.defs {
		if def.Region == region && def.Category.Matches(category) {
			out = append(out, def)
		}
	}
	return out
}

// FindByNote looks a definition up by its reward note
func (r *InMemoryRepository) FindByNote(note entities.FormID) (*entities.QuestDefinition, bool) {
	if note.IsNone() {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, def := range r.defs {
		if def.Note == note {
			return def, true
		}
	}
	return nil, false
}

// FindByObjective looks a definition up by its bound objective. Index 0 is
// the shared turn-in objective and never identifies a definition.
func (r *InMemoryRepository) FindByObjective(quest entities.FormID, index uint16) (*entities.QuestDefinition, bool) {
	if quest.IsNone() || index == 0 {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, def := range r.defs {
		if def.Quest == quest && def.ObjectiveIndex == index {
			return def, true
		}
	}
	return nil, false
}

// FindAllByObjective returns every definition bound to the objective
func (r *InMemoryRepository) FindAllByObjective(quest entities.FormID, index uint16) []*entities.QuestDefinition {
	if quest.IsNone() || index == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entities.QuestDefinition
	for _, def := range r.defs {
		if def.Quest == quest && def.ObjectiveIndex == index {
			out = append(out, def)
		}
	}
	return out
}

// SetObjectiveIndex updates every definition of the quest/location pair
func (r *InMemoryRepository) SetObjectiveIndex(quest, location entities.FormID, index uint16) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, def := range r.defs {
		if def.Quest == quest && def.Location == location {
			def.ObjectiveIndex = index
			found = true
		}
	}
	return found
}

// ClearObjectiveIndex resets a definition's objective index
func (r *InMemoryRepository) ClearObjectiveIndex(def *entities.QuestDefinition) {
	if def == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	def.ObjectiveIndex = 0
}

// ObjectiveIndex reads a definition's objective index
func (r *InMemoryRepository) ObjectiveIndex(def *entities.QuestDefinition) uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return def.ObjectiveIndex
}

// Enqueue appends to the work queue
func (r *InMemoryRepository) Enqueue(defs ...*entities.QuestDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range defs {
		if def != nil {
			r.queue = append(r.queue, def)
		}
	}
}

// Drain takes the whole work queue
func (r *InMemoryRepository) Drain() []*entities.QuestDefinition {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := r.queue
	r.queue = nil
	return batch
}

// QueueLen returns the queue length
func (r *InMemoryRepository) QueueLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queue)
}

// Len returns the number of definitions
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
