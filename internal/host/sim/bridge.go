package sim

import (
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// SetQuestLocation writes a location into a location alias slot
func (w *World) SetQuestLocation(id entities.FormID, aliasID uint32, loc entities.FormID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, err := w.quest(id)
	if err != nil {
		return err
	}
	if !w.hasAlias(q, aliasID, host.AliasLocation) {
		return errors.NotFoundf("quest %s has no location alias %d", id, aliasID)
	}
	q.locations[aliasID] = loc
	return nil
}

// ForceBindActor binds an actor into a reference alias
func (w *World) ForceBindActor(id entities.FormID, aliasID uint32, actor entities.FormID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, err := w.quest(id)
	if err != nil {
		return err
	}
	if !w.hasAlias(q, aliasID, host.AliasReference) {
		return errors.NotFoundf("quest %s has no reference alias %d", id, aliasID)
	}
	if _, ok := w.actors[actor]; !ok {
		return errors.NotFoundf("actor %s not found", actor)
	}
	q.actors[aliasID] = actor
	return nil
}

func (w *World) hasAlias(q *quest, aliasID uint32, kind host.AliasKind) bool {
	for _, a := range q.aliases {
		if a.ID == aliasID && a.Kind == kind {
			return true
		}
	}
	return false
}

// IsEditorLocation reports whether the actor is placed within location
func (w *World) IsEditorLocation(loc, actor entities.FormID) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[actor]
	if !ok {
		return false, errors.NotFoundf("actor %s not found", actor)
	}
	return w.within(a.Location, loc), nil
}

// CountAliveOfType counts living actors of refType placed within location
func (w *World) CountAliveOfType(loc, refType entities.FormID) (uint32, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.locations[loc]; !ok {
		return 0, errors.NotFoundf("location %s not found", loc)
	}
	var n uint32
	for _, id := range w.actorsIn(loc) {
		a := w.actors[id]
		if a.RefType == refType && !a.Dead {
			n++
		}
	}
	return n, nil
}

// SetObjectiveState changes an objective's display state
func (w *World) SetObjectiveState(id entities.FormID, index uint16, state host.ObjectiveState) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, err := w.objective(id, index)
	if err != nil {
		return err
	}
	o.state = state
	return nil
}

// ShowGiftMenu opens the gift menu with a snapshot of target's inventory
func (w *World) ShowGiftMenu(target, source entities.FormID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.kinds[target]; !ok {
		return errors.NotFoundf("menu target %s not found", target)
	}
	items := make(map[entities.FormID]uint32, len(w.inventories[target]))
	for item, n := range w.inventories[target] {
		items[item] = n
	}
	w.giftMenu = &GiftMenu{Target: target, Source: source, Items: items}
	return nil
}

// GiftMenu returns the open gift menu, if any
func (w *World) GiftMenu() (GiftMenu, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.giftMenu == nil {
		return GiftMenu{}, false
	}
	return *w.giftMenu, true
}

// TakeFromGiftMenu moves an item offered by the menu into the player's
// inventory, like the player picking it in the menu
func (w *World) TakeFromGiftMenu(item entities.FormID) error {
	w.mu.Lock()
	menu := w.giftMenu
	w.mu.Unlock()
	if menu == nil {
		return errors.FailedPreconditionf("gift menu is not open")
	}
	return w.Transfer(menu.Target, w.player, item, 1)
}

// CloseGiftMenu closes the gift menu
func (w *World) CloseGiftMenu() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.giftMenu = nil
}
