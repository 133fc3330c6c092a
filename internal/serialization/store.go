// Package serialization owns the state that outlives a game session:
// reserved locations, generated objective texts and region reward trackers.
// It writes that state into the host save container and restores it, with
// every saved id translated through the host on load.
package serialization

import (
	"log/slog"
	"sync"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/catalog"
)

// Config holds the dependencies of the store
type Config struct {
	Host    host.Host
	Catalog catalog.Repository
	// ClearGlobalOnClaim resets a tracker's host global when its counts are
	// cleared, in addition to the counts themselves
	ClearGlobalOnClaim bool
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Host == nil {
		vb.RequiredField("Host")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	return vb.Build()
}

// Store is the persistent state. One mutex guards everything, including
// whole save, load and revert passes.
type Store struct {
	host        host.Host
	catalog     catalog.Repository
	clearGlobal bool

	mu         sync.Mutex
	reserved   []entities.FormID
	objectives []entities.ObjectiveText
	trackers   []*entities.RegionTracker
}

// New creates an empty store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Store{
		host:        cfg.Host,
		catalog:     cfg.Catalog,
		clearGlobal: cfg.ClearGlobalOnClaim,
	}, nil
}

// Reserve locks a location. It reports false if it was already reserved.
func (s *Store) Reserve(location entities.FormID) bool {
	if location.IsNone() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserve(location)
}

func (s *Store) reserve(location entities.FormID) bool {
	for _, id := range s.reserved {
		if id == location {
			return false
		}
	}
	s.reserved = append(s.reserved, location)
	return true
}

// Release unlocks a location
func (s *Store) Release(location entities.FormID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.reserved {
		if id == location {
			s.reserved = append(s.reserved[:i], s.reserved[i+1:]...)
			return
		}
	}
}

// IsReserved reports whether a location is locked by an active bounty
func (s *Store) IsReserved(location entities.FormID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.reserved {
		if id == location {
			return true
		}
	}
	return false
}

// Reserved returns the reserved locations in reservation order
func (s *Store) Reserved() []entities.FormID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.FormID(nil), s.reserved...)
}

// RecordObjectiveText keeps a generated objective text. A text recorded
// earlier for the same location is replaced.
func (s *Store) RecordObjectiveText(text entities.ObjectiveText) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordObjectiveText(text)
}

func (s *Store) recordObjectiveText(text entities.ObjectiveText) {
	for i := range s.objectives {
		if s.objectives[i].Location == text.Location {
			s.objectives[i] = text
			return
		}
	}
	s.objectives = append(s.objectives, text)
}

// ObjectiveTexts returns the recorded objective texts
func (s *Store) ObjectiveTexts() []entities.ObjectiveText {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ObjectiveText(nil), s.objectives...)
}

// AddTracker registers a region tracker. A second tracker for the same
// (global, region) pair is rejected.
func (s *Store) AddTracker(tracker *entities.RegionTracker) error {
	if tracker == nil || tracker.Global.IsNone() || tracker.Region.IsNone() {
		return errors.InvalidArgument("tracker needs a global and a region")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trackers {
		if t.Key() == tracker.Key() {
			return errors.AlreadyExistsf("tracker for global %s and region %s already exists", tracker.Global, tracker.Region)
		}
	}

	t := &entities.RegionTracker{
		Global:  tracker.Global,
		Region:  tracker.Region,
		Rewards: copyRewards(tracker.Rewards),
	}
	s.trackers = append(s.trackers, t)
	return nil
}

// Trackers returns copies of every tracker in registration order
func (s *Store) Trackers() []entities.RegionTracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.RegionTracker, len(s.trackers))
	for i, t := range s.trackers {
		out[i] = entities.RegionTracker{Global: t.Global, Region: t.Region, Rewards: copyRewards(t.Rewards)}
	}
	return out
}

// Tracker returns a copy of the first tracker of a region
func (s *Store) Tracker(region entities.FormID) (entities.RegionTracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.trackerFor(region)
	if t == nil {
		return entities.RegionTracker{}, false
	}
	return entities.RegionTracker{Global: t.Global, Region: t.Region, Rewards: copyRewards(t.Rewards)}, true
}

// IsTracked reports whether a location is the region of some tracker
func (s *Store) IsTracked(region entities.FormID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trackerFor(region) != nil
}

func (s *Store) trackerFor(region entities.FormID) *entities.RegionTracker {
	for _, t := range s.trackers {
		if t.Region == region {
			return t
		}
	}
	return nil
}

// Increment adds one completed bounty of a tier to the region's tracker and
// raises the tracker's global so scripts see a pending reward
func (s *Store) Increment(region entities.FormID, difficulty entities.Difficulty) error {
	s.mu.Lock()
	t := s.trackerFor(region)
	if t == nil {
		s.mu.Unlock()
		return errors.NotFoundf("no tracker for region %s", region)
	}
	if t.Rewards == nil {
		t.Rewards = make(map[entities.Difficulty]uint32)
	}
	t.Rewards[difficulty]++
	global, count := t.Global, t.Rewards[difficulty]
	s.mu.Unlock()

	slog.Info("Incremented region tracker",
		"region", region.String(),
		"difficulty", difficulty.String(),
		"count", count,
	)

	if err := s.host.SetGlobal(global, 1); err != nil {
		return errors.Wrapf(err, "failed to raise tracker global %s", global)
	}
	return nil
}

// ClearTracker zeroes the region's counts and, when configured, its global
func (s *Store) ClearTracker(region entities.FormID) error {
	s.mu.Lock()
	t := s.trackerFor(region)
	if t == nil {
		s.mu.Unlock()
		return errors.NotFoundf("no tracker for region %s", region)
	}
	t.Rewards = make(map[entities.Difficulty]uint32)
	global := t.Global
	s.mu.Unlock()

	if !s.clearGlobal {
		return nil
	}
	if err := s.host.SetGlobal(global, 0); err != nil {
		return errors.Wrapf(err, "failed to clear tracker global %s", global)
	}
	return nil
}

// Revert discards the session: reservations and objective texts are
// dropped, tracker counts are zeroed while the trackers themselves stay.
func (s *Store) Revert() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reserved = nil
	s.objectives = nil
	for _, t := range s.trackers {
		t.Rewards = make(map[entities.Difficulty]uint32)
	}

	slog.Info("Reverted persistent state", "trackers", len(s.trackers))
}

func copyRewards(in map[entities.Difficulty]uint32) map[entities.Difficulty]uint32 {
	out := make(map[entities.Difficulty]uint32, len(in))
	for d, n := range in {
		out[d] = n
	}
	return out
}
