package cosave

import (
	"context"
	"sort"
	"sync"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	clock clock.Clock
	slots map[string]*Slot
}

// NewInMemory creates an empty in-memory slot store
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock: c,
		slots: make(map[string]*Slot),
	}
}

// Put stores a slot
func (r *InMemoryRepository) Put(_ context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errSlotNameEmpty)
	}

	slot := &Slot{
		Name:    input.Name,
		SavedAt: r.clock.Now().UTC(),
		Size:    len(input.Blob),
		Blob:    append([]byte(nil), input.Blob...),
	}

	r.mu.Lock()
	r.slots[input.Name] = slot
	r.mu.Unlock()

	return &PutOutput{Slot: copySlot(slot, true)}, nil
}

// Get retrieves a slot
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errSlotNameEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[input.Name]
	if !ok {
		return nil, errors.NotFoundf("slot %s not found", input.Name)
	}
	return &GetOutput{Slot: copySlot(slot, true)}, nil
}

// List returns every slot without its blob
func (r *InMemoryRepository) List(_ context.Context, _ *ListInput) (*ListOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := make([]*Slot, 0, len(r.slots))
	for _, slot := range r.slots {
		slots = append(slots, copySlot(slot, false))
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Name < slots[j].Name })
	return &ListOutput{Slots: slots}, nil
}

// Delete removes a slot
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errSlotNameEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[input.Name]; !ok {
		return nil, errors.NotFoundf("slot %s not found", input.Name)
	}
	delete(r.slots, input.Name)
	return &DeleteOutput{}, nil
}

func copySlot(s *Slot, withBlob bool) *Slot {
	out := &Slot{Name: s.Name, SavedAt: s.SavedAt, Size: s.Size}
	if withBlob {
		out.Blob = append([]byte(nil), s.Blob...)
	}
	return out
}
