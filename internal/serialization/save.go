package serialization

import (
	"log/slog"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// Save writes the three records. A failing record is abandoned and logged;
// the records after it are still written. The first failure is returned.
func (s *Store) Save(w host.SaveWriter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for _, rec := range []struct {
		tag   uint32
		write func(host.SaveWriter) error
	}{
		{RecordReservations, s.writeReservations},
		{RecordObjectives, s.writeObjectives},
		{RecordTrackers, s.writeTrackers},
	} {
		if err := w.OpenRecord(rec.tag, Version); err != nil {
			err = errors.WrapWithCodef(err, errors.CodeDataLoss, "failed to open record %s", host.TagString(rec.tag))
			slog.Error("Save record aborted", "record", host.TagString(rec.tag), "error", err)
			if first == nil {
				first = err
			}
			continue
		}
		if err := rec.write(w); err != nil {
			err = errors.WrapWithCodef(err, errors.CodeDataLoss, "failed to write record %s", host.TagString(rec.tag))
			slog.Error("Save record aborted", "record", host.TagString(rec.tag), "error", err)
			if first == nil {
				first = err
			}
		}
	}

	slog.Info("Saved persistent state",
		"reserved", len(s.reserved),
		"objectives", len(s.objectives),
		"trackers", len(s.trackers),
	)
	return first
}

func (s *Store) writeReservations(w host.SaveWriter) error {
	var e encoder
	e.u64(uint64(len(s.reserved)))
	if err := e.flush(w); err != nil {
		return err
	}
	for _, id := range s.reserved {
		e.u32(uint32(id))
		if err := e.flush(w); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeObjectives(w host.SaveWriter) error {
	var e encoder
	e.u64(uint64(len(s.objectives)))
	if err := e.flush(w); err != nil {
		return err
	}
	for _, o := range s.objectives {
		e.u32(uint32(o.Quest))
		e.u32(uint32(o.Location))
		e.u16(o.Index)
		e.str(o.Text)
		if err := e.flush(w); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeTrackers(w host.SaveWriter) error {
	var e encoder
	e.u64(uint64(len(s.trackers)))
	if err := e.flush(w); err != nil {
		return err
	}
	for _, t := range s.trackers {
		e.u32(uint32(t.Global))
		e.u32(uint32(t.Region))
		tiers := sortedTiers(t.Rewards)
		e.u64(uint64(len(tiers)))
		for _, d := range tiers {
			e.u32(uint32(d))
			e.u32(t.Rewards[d])
		}
		if err := e.flush(w); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every record of the container. Records of another version or
// unknown type are skipped; entries whose ids no longer resolve are
// dropped. A record that fails mid-way keeps the entries read before the
// failure.
func (s *Store) Load(r host.SaveReader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for {
		info, ok := r.NextRecord()
		if !ok {
			break
		}
		tag := host.TagString(info.Type)

		if info.Version != Version {
			slog.Warn("Skipping record with foreign version",
				"record", tag,
				"version", info.Version,
				"expected", Version,
			)
			continue
		}

		d := newDecoder(r, info.Length)
		var err error
		switch info.Type {
		case RecordReservations:
			var ids []entities.FormID
			ids, err = decodeReservations(d)
			s.applyReservations(r, ids)
		case RecordObjectives:
			var texts []entities.ObjectiveText
			texts, err = decodeObjectives(d)
			s.applyObjectives(r, texts)
		case RecordTrackers:
			var trackers []entities.RegionTracker
			trackers, err = decodeTrackers(d)
			s.applyTrackers(r, trackers)
		default:
			slog.Debug("Skipping unknown record", "record", tag)
			continue
		}

		if err != nil {
			slog.Error("Load record aborted", "record", tag, "error", err)
			if first == nil {
				first = errors.Wrapf(err, "record %s", tag)
			}
		}
	}

	slog.Info("Loaded persistent state",
		"reserved", len(s.reserved),
		"objectives", len(s.objectives),
		"trackers", len(s.trackers),
	)
	return first
}

// resolve translates a saved id and checks it still names a form of kind
func (s *Store) resolve(r host.SaveReader, old entities.FormID, kind entities.FormKind) (entities.FormID, bool) {
	id, ok := r.ResolveFormID(old)
	if !ok || id.IsNone() {
		return entities.NoForm, false
	}
	if !s.host.FormExists(id, kind) {
		return entities.NoForm, false
	}
	return id, true
}

func (s *Store) applyReservations(r host.SaveReader, ids []entities.FormID) {
	for _, old := range ids {
		id, ok := s.resolve(r, old, entities.FormLocation)
		if !ok {
			slog.Warn("Dropping reservation of unresolved location", "location", old.String())
			continue
		}
		s.reserve(id)
	}
}

func (s *Store) applyObjectives(r host.SaveReader, texts []entities.ObjectiveText) {
	for _, saved := range texts {
		quest, ok := s.resolve(r, saved.Quest, entities.FormQuest)
		if !ok {
			slog.Warn("Dropping objective text of unresolved quest", "quest", saved.Quest.String())
			continue
		}
		location, ok := s.resolve(r, saved.Location, entities.FormLocation)
		if !ok {
			slog.Warn("Dropping objective text of unresolved location", "location", saved.Location.String())
			continue
		}

		text := entities.ObjectiveText{Quest: quest, Location: location, Index: saved.Index, Text: saved.Text}
		if !s.catalog.SetObjectiveIndex(quest, location, saved.Index) {
			slog.Warn("No quest definition for restored objective",
				"quest", quest.String(),
				"location", location.String(),
			)
		}
		if err := s.host.SetObjectiveText(quest, saved.Index, saved.Text); err != nil {
			slog.Warn("Failed to restore objective text",
				"quest", quest.String(),
				"index", saved.Index,
				"error", err,
			)
		}
		s.recordObjectiveText(text)
	}
}

func (s *Store) applyTrackers(r host.SaveReader, saved []entities.RegionTracker) {
	for _, st := range saved {
		global, ok := s.resolve(r, st.Global, entities.FormGlobal)
		if !ok {
			slog.Warn("Dropping tracker of unresolved global", "global", st.Global.String())
			continue
		}
		region, ok := s.resolve(r, st.Region, entities.FormLocation)
		if !ok {
			slog.Warn("Dropping tracker of unresolved region", "region", st.Region.String())
			continue
		}

		key := entities.TrackerKey{Global: global, Region: region}
		matched := false
		for _, t := range s.trackers {
			if t.Key() == key {
				t.Rewards = copyRewards(st.Rewards)
				matched = true
				break
			}
		}
		if !matched {
			slog.Debug("Saved tracker has no configured counterpart",
				"global", global.String(),
				"region", region.String(),
			)
		}
	}
}
