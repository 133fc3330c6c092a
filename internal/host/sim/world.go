// Package sim is an in-memory host. It implements host.Host and host.Bridge
// over plain maps and emulates the engine's asynchronous alias filling, so
// the orchestration can run end to end without the game.
package sim

import (
	"sort"
	"sync"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// FirstDynamicID is the id handed to the first form created at runtime
const FirstDynamicID entities.FormID = 0xFF000800

// Actor is a placed actor reference
type Actor struct {
	ID       entities.FormID
	Name     string
	Location entities.FormID // editor location, current location for the player
	RefType  entities.FormID
	Dead     bool
	Disabled bool
}

type location struct {
	parent   entities.FormID
	marker   entities.FormID
	specials map[entities.FormID]entities.FormID
}

type objective struct {
	text  string
	state host.ObjectiveState
}

type quest struct {
	running    bool
	failStart  bool
	aliases    []host.Alias
	actors     map[uint32]entities.FormID
	locations  map[uint32]entities.FormID
	objectives map[uint16]*objective
	starts     int
	fillAfter  int
}

// GiftMenu records the last gift menu opened
type GiftMenu struct {
	Target entities.FormID
	Source entities.FormID
	Items  map[entities.FormID]uint32
}

// ContainerChange is reported for every item moved into a container
type ContainerChange struct {
	From  entities.FormID
	To    entities.FormID
	Item  entities.FormID
	Count uint32
}

// World is the simulated host
type World struct {
	mu sync.Mutex

	forms  map[entities.FormRef]entities.FormID
	kinds  map[entities.FormID]entities.FormKind
	names  map[entities.FormID]string
	nextID entities.FormID

	locations map[entities.FormID]*location
	quests    map[entities.FormID]*quest
	actors    map[entities.FormID]*Actor
	globals   map[entities.FormID]float32
	settings  map[string]string

	inventories map[entities.FormID]map[entities.FormID]uint32
	notes       map[entities.FormID]host.NoteSpec
	markers     map[entities.FormID]bool

	player       entities.FormID
	playerLoaded bool

	notifications []string
	sounds        []string
	giftMenu      *GiftMenu
	remap         map[entities.FormID]entities.FormID

	onContainerChanged func(ContainerChange)
}

var (
	_ host.Host   = (*World)(nil)
	_ host.Bridge = (*World)(nil)
)

// New returns an empty world with a loaded player at 0x14
func New() *World {
	w := &World{
		forms:       make(map[entities.FormRef]entities.FormID),
		kinds:       make(map[entities.FormID]entities.FormKind),
		names:       make(map[entities.FormID]string),
		nextID:      FirstDynamicID,
		locations:   make(map[entities.FormID]*location),
		quests:      make(map[entities.FormID]*quest),
		actors:      make(map[entities.FormID]*Actor),
		globals:     make(map[entities.FormID]float32),
		settings:    make(map[string]string),
		inventories: make(map[entities.FormID]map[entities.FormID]uint32),
		notes:       make(map[entities.FormID]host.NoteSpec),
		markers:     make(map[entities.FormID]bool),
		remap:       make(map[entities.FormID]entities.FormID),
	}
	w.player = 0x14
	w.playerLoaded = true
	w.actors[w.player] = &Actor{ID: w.player, Name: "Player"}
	w.kinds[w.player] = entities.FormActor
	return w
}

// Register makes a runtime form reachable through a plugin reference
func (w *World) Register(ref entities.FormRef, id entities.FormID, kind entities.FormKind, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.forms[ref] = id
	w.define(id, kind, name)
}

// Define declares a runtime form without a plugin reference
func (w *World) Define(id entities.FormID, kind entities.FormKind, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.define(id, kind, name)
}

func (w *World) define(id entities.FormID, kind entities.FormKind, name string) {
	w.kinds[id] = kind
	if name != "" {
		w.names[id] = name
	}
}

// AddLocation declares a location under parent
func (w *World) AddLocation(id, parent entities.FormID, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.define(id, entities.FormLocation, name)
	w.locations[id] = &location{parent: parent, specials: make(map[entities.FormID]entities.FormID)}
}

// SetWorldMarker gives a location its own map marker
func (w *World) SetWorldMarker(loc, ref entities.FormID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if l, ok := w.locations[loc]; ok {
		l.marker = ref
		w.define(ref, entities.FormReference, "")
	}
}

// SetSpecialRef registers a typed reference on a location
func (w *World) SetSpecialRef(loc, refType, ref entities.FormID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if l, ok := w.locations[loc]; ok {
		l.specials[refType] = ref
		w.define(ref, entities.FormReference, "")
	}
}

// AddQuest declares a quest with its alias slots and objective indexes
func (w *World) AddQuest(id entities.FormID, aliases []host.Alias, objectives ...uint16) {
	w.mu.Lock()
	defer w.mu.Unlock()
	q := &quest{
		aliases:    aliases,
		actors:     make(map[uint32]entities.FormID),
		locations:  make(map[uint32]entities.FormID),
		objectives: make(map[uint16]*objective),
		fillAfter:  1,
	}
	for _, idx := range objectives {
		q.objectives[idx] = &objective{}
	}
	w.quests[id] = q
	w.define(id, entities.FormQuest, "")
}

// SetFillAfter makes the engine fill a quest's reference aliases on the
// n-th start. Zero means never.
func (w *World) SetFillAfter(id entities.FormID, n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if q, ok := w.quests[id]; ok {
		q.fillAfter = n
	}
}

// SetStartFails makes EnsureStarted report failure for a quest
func (w *World) SetStartFails(id entities.FormID, fails bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if q, ok := w.quests[id]; ok {
		q.failStart = fails
	}
}

// Starts returns how many times a quest was started
func (w *World) Starts(id entities.FormID) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if q, ok := w.quests[id]; ok {
		return q.starts
	}
	return 0
}

// AddActor places an actor
func (w *World) AddActor(a Actor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	actor := a
	w.actors[a.ID] = &actor
	w.define(a.ID, entities.FormActor, a.Name)
}

// Kill marks an actor dead
func (w *World) Kill(id entities.FormID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if a, ok := w.actors[id]; ok {
		a.Dead = true
	}
}

// MovePlayer changes the player's current location
func (w *World) MovePlayer(loc entities.FormID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.actors[w.player].Location = loc
}

// SetPlayerLoaded toggles whether the player's 3D is loaded
func (w *World) SetPlayerLoaded(loaded bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playerLoaded = loaded
}

// SetGameSetting defines a game setting string
func (w *World) SetGameSetting(name, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings[name] = value
}

// DefineGlobal declares a global variable with an initial value
func (w *World) DefineGlobal(id entities.FormID, value float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.define(id, entities.FormGlobal, "")
	w.globals[id] = value
}

// Remap makes a saved id resolve to a different id on load
func (w *World) Remap(old, current entities.FormID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.remap[old] = current
}

// OnContainerChanged installs the container-change hook
func (w *World) OnContainerChanged(fn func(ContainerChange)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onContainerChanged = fn
}

// LookupForm resolves a plugin reference
func (w *World) LookupForm(ref entities.FormRef, kind entities.FormKind) (entities.FormID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.forms[ref]
	if !ok || !w.exists(id, kind) {
		return entities.NoForm, false
	}
	return id, true
}

// FormExists reports whether id is defined with the given kind
func (w *World) FormExists(id entities.FormID, kind entities.FormKind) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exists(id, kind)
}

func (w *World) exists(id entities.FormID, kind entities.FormKind) bool {
	k, ok := w.kinds[id]
	return ok && (kind == entities.FormAny || k == kind)
}

// FormName returns the display name of a form
func (w *World) FormName(id entities.FormID) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.names[id]
}

// CreateNote creates a book form
func (w *World) CreateNote(note host.NoteSpec) (entities.FormID, error) {
	if note.Name == "" {
		return entities.NoForm, errors.InvalidArgument("note name is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.define(id, entities.FormItem, note.Name)
	w.notes[id] = note
	return id, nil
}

// Note returns the description a note was created with
func (w *World) Note(id entities.FormID) (host.NoteSpec, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	note, ok := w.notes[id]
	return note, ok
}

func (w *World) quest(id entities.FormID) (*quest, error) {
	q, ok := w.quests[id]
	if !ok {
		return nil, errors.NotFoundf("quest %s not found", id)
	}
	return q, nil
}

// IsRunning reports whether a quest runs
func (w *World) IsRunning(id entities.FormID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, ok := w.quests[id]
	return ok && q.running
}

// Start starts a quest
func (w *World) Start(id entities.FormID) error {
	_, err := w.EnsureStarted(id)
	return err
}

// Stop stops a quest and empties its aliases
func (w *World) Stop(id entities.FormID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, err := w.quest(id)
	if err != nil {
		return err
	}
	q.running = false
	q.actors = make(map[uint32]entities.FormID)
	return nil
}

// EnsureStarted starts the quest if needed. Starting counts towards the
// quest's alias fill.
func (w *World) EnsureStarted(id entities.FormID) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, err := w.quest(id)
	if err != nil {
		return false, err
	}
	if q.failStart {
		return false, nil
	}
	if q.running {
		return true, nil
	}

	q.running = true
	q.starts++
	if q.fillAfter > 0 && q.starts >= q.fillAfter {
		w.fill(q)
	}
	return true, nil
}

// fill binds every empty reference alias to the first live actor placed in
// one of the quest's alias locations
func (w *World) fill(q *quest) {
	used := make(map[entities.FormID]bool)
	for _, a := range q.actors {
		used[a] = true
	}

	var candidates []entities.FormID
	for _, alias := range q.aliases {
		if alias.Kind != host.AliasLocation {
			continue
		}
		loc := q.locations[alias.ID]
		if loc.IsNone() {
			continue
		}
		for _, id := range w.actorsIn(loc) {
			a := w.actors[id]
			if !a.Dead && !a.Disabled && id != w.player && !used[id] {
				candidates = append(candidates, id)
			}
		}
	}

	for _, alias := range q.aliases {
		if alias.Kind != host.AliasReference || !q.actors[alias.ID].IsNone() {
			continue
		}
		if len(candidates) == 0 {
			return
		}
		q.actors[alias.ID] = candidates[0]
		candidates = candidates[1:]
	}
}

func (w *World) actorsIn(loc entities.FormID) []entities.FormID {
	var ids []entities.FormID
	for id, a := range w.actors {
		if w.within(a.Location, loc) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// within reports whether loc is ancestor or equal to child
func (w *World) within(child, loc entities.FormID) bool {
	for cur, depth := child, 0; !cur.IsNone() && depth < 64; depth++ {
		if cur == loc {
			return true
		}
		l, ok := w.locations[cur]
		if !ok {
			return false
		}
		cur = l.parent
	}
	return false
}

// Aliases returns the alias slots of a quest
func (w *World) Aliases(id entities.FormID) []host.Alias {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, ok := w.quests[id]
	if !ok {
		return nil
	}
	return append([]host.Alias(nil), q.aliases...)
}

// AliasActor returns the actor held by a reference alias
func (w *World) AliasActor(id entities.FormID, aliasID uint32) entities.FormID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if q, ok := w.quests[id]; ok {
		return q.actors[aliasID]
	}
	return entities.NoForm
}

// AliasLocation returns the location held by a location alias
func (w *World) AliasLocation(id entities.FormID, aliasID uint32) entities.FormID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if q, ok := w.quests[id]; ok {
		return q.locations[aliasID]
	}
	return entities.NoForm
}

// ObjectiveState returns the display state of an objective
func (w *World) ObjectiveState(id entities.FormID, index uint16) (host.ObjectiveState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, ok := w.quests[id]
	if !ok {
		return host.ObjectiveDormant, false
	}
	o, ok := q.objectives[index]
	if !ok {
		return host.ObjectiveDormant, false
	}
	return o.state, true
}

// SetObjectiveText replaces an objective's display text
func (w *World) SetObjectiveText(id entities.FormID, index uint16, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, err := w.objective(id, index)
	if err != nil {
		return err
	}
	o.text = text
	return nil
}

// ObjectiveText returns an objective's display text
func (w *World) ObjectiveText(id entities.FormID, index uint16) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, err := w.objective(id, index)
	if err != nil {
		return ""
	}
	return o.text
}

func (w *World) objective(id entities.FormID, index uint16) (*objective, error) {
	q, err := w.quest(id)
	if err != nil {
		return nil, err
	}
	o, ok := q.objectives[index]
	if !ok {
		return nil, errors.NotFoundf("objective %d of quest %s not found", index, id)
	}
	return o, nil
}

// ParentLocation returns the enclosing location
func (w *World) ParentLocation(loc entities.FormID) entities.FormID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if l, ok := w.locations[loc]; ok {
		return l.parent
	}
	return entities.NoForm
}

// WorldMarker returns the location's own marker
func (w *World) WorldMarker(loc entities.FormID) entities.FormID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if l, ok := w.locations[loc]; ok {
		return l.marker
	}
	return entities.NoForm
}

// SpecialRef returns the location's reference of a type
func (w *World) SpecialRef(loc, refType entities.FormID) entities.FormID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if l, ok := w.locations[loc]; ok {
		return l.specials[refType]
	}
	return entities.NoForm
}

// SetMapMarkerVisible reveals a map marker
func (w *World) SetMapMarkerVisible(ref entities.FormID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.exists(ref, entities.FormReference) {
		return errors.NotFoundf("marker %s not found", ref)
	}
	w.markers[ref] = true
	return nil
}

// MarkerVisible reports whether a map marker was revealed
func (w *World) MarkerVisible(ref entities.FormID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.markers[ref]
}

// IsDead reports whether an actor is dead
func (w *World) IsDead(id entities.FormID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[id]
	return ok && a.Dead
}

// IsDisabled reports whether an actor is disabled
func (w *World) IsDisabled(id entities.FormID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[id]
	return ok && a.Disabled
}

// Player returns the player reference
func (w *World) Player() entities.FormID {
	return w.player
}

// PlayerLoaded reports whether the player's 3D is loaded
func (w *World) PlayerLoaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.playerLoaded
}

// AddItem puts count of item into a container
func (w *World) AddItem(container, item entities.FormID, count uint32) error {
	return w.Transfer(entities.NoForm, container, item, count)
}

// Transfer moves items between containers; a null source creates them
func (w *World) Transfer(from, to, item entities.FormID, count uint32) error {
	w.mu.Lock()
	if !w.exists(item, entities.FormItem) {
		w.mu.Unlock()
		return errors.NotFoundf("item %s not found", item)
	}
	if !from.IsNone() {
		if w.inventories[from][item] < count {
			w.mu.Unlock()
			return errors.FailedPreconditionf("container %s holds fewer than %d of %s", from, count, item)
		}
		w.inventories[from][item] -= count
	}
	inv := w.inventories[to]
	if inv == nil {
		inv = make(map[entities.FormID]uint32)
		w.inventories[to] = inv
	}
	inv[item] += count
	hook := w.onContainerChanged
	w.mu.Unlock()

	if hook != nil {
		hook(ContainerChange{From: from, To: to, Item: item, Count: count})
	}
	return nil
}

// RemoveItem takes count of item out of a container
func (w *World) RemoveItem(container, item entities.FormID, count uint32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	inv := w.inventories[container]
	if inv[item] < count {
		return errors.FailedPreconditionf("container %s holds fewer than %d of %s", container, count, item)
	}
	inv[item] -= count
	if inv[item] == 0 {
		delete(inv, item)
	}
	return nil
}

// ResetInventory empties a container
func (w *World) ResetInventory(container entities.FormID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inventories, container)
	return nil
}

// ItemCount returns how many of item a container holds
func (w *World) ItemCount(container, item entities.FormID) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inventories[container][item]
}

// Inventory returns a copy of a container's contents
func (w *World) Inventory(container entities.FormID) map[entities.FormID]uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[entities.FormID]uint32, len(w.inventories[container]))
	for item, n := range w.inventories[container] {
		out[item] = n
	}
	return out
}

// Notify shows a HUD notification
func (w *World) Notify(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notifications = append(w.notifications, text)
}

// PlaySound plays a UI sound
func (w *World) PlaySound(editorID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sounds = append(w.sounds, editorID)
}

// GameSetting returns a game setting string
func (w *World) GameSetting(name string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.settings[name]
	return v, ok
}

// Notifications returns every notification shown so far
func (w *World) Notifications() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.notifications...)
}

// Sounds returns every sound played so far
func (w *World) Sounds() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.sounds...)
}

// Global reads a global variable
func (w *World) Global(id entities.FormID) (float32, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.exists(id, entities.FormGlobal) {
		return 0, false
	}
	return w.globals[id], true
}

// SetGlobal writes a global variable
func (w *World) SetGlobal(id entities.FormID, value float32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.exists(id, entities.FormGlobal) {
		return errors.NotFoundf("global %s not found", id)
	}
	w.globals[id] = value
	return nil
}

// ResolveSaved translates an id from an earlier session: remapped ids
// follow the remap table, ids still defined resolve to themselves.
func (w *World) ResolveSaved(old entities.FormID) (entities.FormID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id, ok := w.remap[old]; ok {
		return id, !id.IsNone()
	}
	if _, ok := w.kinds[old]; ok {
		return old, true
	}
	return entities.NoForm, false
}
