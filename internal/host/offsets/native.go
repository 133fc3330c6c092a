package offsets

import (
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// Invoker performs raw calls and stores in the host process. The host
// loader supplies it; the calling convention is its concern.
type Invoker interface {
	Call(addr uintptr, args ...uintptr) (uintptr, error)
	Store(addr uintptr, value uint64) error
}

// ObjectResolver turns handles into the object pointers native calls take
type ObjectResolver interface {
	Pointer(id entities.FormID) (uintptr, bool)
	Objective(quest entities.FormID, index uint16) (uintptr, bool)
	RefHandle(id entities.FormID) (uint32, bool)
	// QueueGiftMenu asks the UI to open the gift menu
	QueueGiftMenu() error
}

// NativeConfig holds the dependencies of Native
type NativeConfig struct {
	Offsets  *Resolved
	Invoker  Invoker
	Resolver ObjectResolver
}

// Validate ensures all required dependencies are provided
func (c *NativeConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Offsets == nil {
		vb.RequiredField("Offsets")
	}
	if c.Invoker == nil {
		vb.RequiredField("Invoker")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}

	return vb.Build()
}

// Native implements host.Bridge through resolved offsets
type Native struct {
	offsets  *Resolved
	invoker  Invoker
	resolver ObjectResolver
}

var _ host.Bridge = (*Native)(nil)

// NewNative creates the production bridge
func NewNative(cfg *NativeConfig) (*Native, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Native{
		offsets:  cfg.Offsets,
		invoker:  cfg.Invoker,
		resolver: cfg.Resolver,
	}, nil
}

func (n *Native) pointers(ids ...entities.FormID) ([]uintptr, error) {
	out := make([]uintptr, len(ids))
	for i, id := range ids {
		ptr, ok := n.resolver.Pointer(id)
		if !ok {
			return nil, errors.NotFoundf("form %s is not loaded", id)
		}
		out[i] = ptr
	}
	return out, nil
}

func (n *Native) call(op Op, args ...uintptr) (uintptr, error) {
	addr := n.offsets.Address(op)
	if addr == 0 {
		return 0, errors.FailedPreconditionf("operation %s is not resolved", op)
	}
	ret, err := n.invoker.Call(addr, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "native %s failed", op)
	}
	return ret, nil
}

// SetQuestLocation writes a location into a location alias slot
func (n *Native) SetQuestLocation(quest entities.FormID, aliasID uint32, location entities.FormID) error {
	ptrs, err := n.pointers(quest, location)
	if err != nil {
		return err
	}
	_, err = n.call(OpForceLocationTo, ptrs[0], uintptr(aliasID), ptrs[1])
	return err
}

// ForceBindActor binds an actor into a reference alias
func (n *Native) ForceBindActor(quest entities.FormID, aliasID uint32, actor entities.FormID) error {
	ptrs, err := n.pointers(quest, actor)
	if err != nil {
		return err
	}
	_, err = n.call(OpForceRefTo, ptrs[0], uintptr(aliasID), ptrs[1])
	return err
}

// IsEditorLocation reports whether the actor's editor location lies in location
func (n *Native) IsEditorLocation(location, actor entities.FormID) (bool, error) {
	ptrs, err := n.pointers(location, actor)
	if err != nil {
		return false, err
	}
	ret, err := n.call(OpGetIsEditorLocation, ptrs[0], ptrs[1], 0)
	if err != nil {
		return false, err
	}
	return ret&0xFF != 0, nil
}

// CountAliveOfType counts living references of refType in location
func (n *Native) CountAliveOfType(location, refType entities.FormID) (uint32, error) {
	ptrs, err := n.pointers(location, refType)
	if err != nil {
		return 0, err
	}
	ret, err := n.call(OpGetRefTypeAliveCount, ptrs[0], ptrs[1], 0, 0, 0, 1, 0)
	if err != nil {
		return 0, err
	}
	return uint32(ret), nil
}

// SetObjectiveState moves an objective through the display-state machine
func (n *Native) SetObjectiveState(quest entities.FormID, index uint16, state host.ObjectiveState) error {
	objective, ok := n.resolver.Objective(quest, index)
	if !ok {
		return errors.NotFoundf("objective %d of quest %s not found", index, quest)
	}
	_, err := n.call(OpSetObjectiveState, objective, uintptr(state))
	return err
}

// ShowGiftMenu points the gift menu at target and source, then opens it
func (n *Native) ShowGiftMenu(target, source entities.FormID) error {
	targetHandle, ok := n.resolver.RefHandle(target)
	if !ok {
		return errors.NotFoundf("reference %s has no handle", target)
	}
	sourceHandle, ok := n.resolver.RefHandle(source)
	if !ok {
		return errors.NotFoundf("reference %s has no handle", source)
	}

	for op, handle := range map[Op]uint32{
		OpShowGiftMenuTarget: targetHandle,
		OpShowGiftMenuSource: sourceHandle,
	} {
		addr := n.offsets.Address(op)
		if addr == 0 {
			return errors.FailedPreconditionf("operation %s is not resolved", op)
		}
		if err := n.invoker.Store(addr, uint64(handle)); err != nil {
			return errors.Wrapf(err, "failed to store %s", op)
		}
	}

	return n.resolver.QueueGiftMenu()
}
