package entities

// QuestDefinition is one bounty parsed from a Quests/*.json entry. Everything
// except ObjectiveIndex is fixed after load; ObjectiveIndex is written by the
// quest catalog once the bounty is bound to an alias.
type QuestDefinition struct {
	Name           string
	Difficulty     Difficulty
	Category       Category
	Quest          FormID // owning host quest
	Location       FormID // target location
	Region         FormID // parent region
	Note           FormID // generated reward note item
	ObjectiveIndex uint16
	Source         string // data file the entry came from
}

// RewardRule grants Quantity[tier] of Item per completed bounty of that tier.
type RewardRule struct {
	Item     FormRef
	Quantity map[Difficulty]uint32
}

// RegionTracker counts completed bounties per tier for one region until the
// player claims the reward. Identity is the (Global, Region) pair.
type RegionTracker struct {
	Global  FormID
	Region  FormID
	Rewards map[Difficulty]uint32
}

// Key returns the identity of the tracker
func (t *RegionTracker) Key() TrackerKey {
	return TrackerKey{Global: t.Global, Region: t.Region}
}

// Pending reports whether any tier has an unclaimed count
func (t *RegionTracker) Pending() bool {
	for _, n := range t.Rewards {
		if n > 0 {
			return true
		}
	}
	return false
}

// TrackerKey identifies a region tracker
type TrackerKey struct {
	Global FormID
	Region FormID
}

// ObjectiveText is the generated display text of one bound objective, kept so
// a reloaded session can restore it without regenerating.
type ObjectiveText struct {
	Quest    FormID
	Location FormID
	Index    uint16
	Text     string
}

// ActivationState tracks a single quest activation attempt.
type ActivationState uint8

// Activation states. Abandoned is terminal failure.
const (
	StateQueued ActivationState = iota
	StateStarting
	StateAwaitingBinding
	StateBound
	StateActive
	StateCompleted
	StateAbandoned
)

var activationStateNames = map[ActivationState]string{
	StateQueued:          "queued",
	StateStarting:        "starting",
	StateAwaitingBinding: "awaiting_binding",
	StateBound:           "bound",
	StateActive:          "active",
	StateCompleted:       "completed",
	StateAbandoned:       "abandoned",
}

// String returns the state name
func (s ActivationState) String() string {
	if name, ok := activationStateNames[s]; ok {
		return name
	}
	return "unknown"
}
