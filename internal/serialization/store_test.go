package serialization_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/catalog"
	"github.com/digital-apple/bounty-quests-ng/internal/serialization"
)

const (
	whiterun   entities.FormID = 0x16770
	embershard entities.FormID = 0x1F00
	bleakFalls entities.FormID = 0x1F01
	questA     entities.FormID = 0x05000802
	trackerVar entities.FormID = 0x05001000
)

type StoreTestSuite struct {
	suite.Suite
	world   *sim.World
	catalog *catalog.InMemoryRepository
	store   *serialization.Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.world = sim.New()
	s.world.AddLocation(whiterun, entities.NoForm, "Whiterun Hold")
	s.world.AddLocation(embershard, whiterun, "Embershard Mine")
	s.world.AddLocation(bleakFalls, whiterun, "Bleak Falls Barrow")
	s.world.AddQuest(questA, []host.Alias{{ID: 1, Kind: host.AliasReference}}, 0, 1, 2)
	s.world.DefineGlobal(trackerVar, 0)

	s.catalog = catalog.NewInMemory()
	s.catalog.Add(
		&entities.QuestDefinition{Name: "Embershard Mine", Quest: questA, Location: embershard, Region: whiterun},
		&entities.QuestDefinition{Name: "Bleak Falls Barrow", Quest: questA, Location: bleakFalls, Region: whiterun},
	)

	s.store = s.newStore(true)
	s.Require().NoError(s.store.AddTracker(&entities.RegionTracker{Global: trackerVar, Region: whiterun}))
}

func (s *StoreTestSuite) newStore(clearGlobal bool) *serialization.Store {
	store, err := serialization.New(&serialization.Config{
		Host:               s.world,
		Catalog:            s.catalog,
		ClearGlobalOnClaim: clearGlobal,
	})
	s.Require().NoError(err)
	return store
}

// reload saves the current store and loads the container into a fresh one
// that has the same trackers configured
func (s *StoreTestSuite) reload(resolve func(entities.FormID) (entities.FormID, bool)) (*serialization.Store, *sim.Container) {
	c := sim.NewContainer()
	s.Require().NoError(s.store.Save(c))
	c.Rewind(resolve)

	fresh := s.newStore(true)
	s.Require().NoError(fresh.AddTracker(&entities.RegionTracker{Global: trackerVar, Region: whiterun}))
	s.Require().NoError(fresh.Load(c))
	return fresh, c
}

func (s *StoreTestSuite) TestNewRequiresConfig() {
	_, err := serialization.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = serialization.New(&serialization.Config{Host: s.world})
	s.Error(err)
	s.Contains(err.Error(), "Catalog")
}

func (s *StoreTestSuite) TestReservations() {
	s.True(s.store.Reserve(embershard))
	s.False(s.store.Reserve(embershard))
	s.False(s.store.Reserve(entities.NoForm))
	s.True(s.store.IsReserved(embershard))

	s.store.Release(embershard)
	s.False(s.store.IsReserved(embershard))
	s.Empty(s.store.Reserved())
}

func (s *StoreTestSuite) TestReservationsRoundTrip() {
	s.store.Reserve(bleakFalls)
	s.store.Reserve(embershard)

	fresh, c := s.reload(nil)

	s.Equal([]entities.FormID{bleakFalls, embershard}, fresh.Reserved())
	s.Equal(serialization.RecordReservations, c.Records()[0].Type)
	s.Equal(serialization.Version, c.Records()[0].Version)
	// count then two ids
	s.Len(c.Records()[0].Data, 8+4+4)
}

func (s *StoreTestSuite) TestObjectiveTextSupersededPerLocation() {
	s.store.RecordObjectiveText(entities.ObjectiveText{Quest: questA, Location: embershard, Index: 1, Text: "first"})
	s.store.RecordObjectiveText(entities.ObjectiveText{Quest: questA, Location: embershard, Index: 2, Text: "second"})

	texts := s.store.ObjectiveTexts()
	s.Require().Len(texts, 1)
	s.Equal(uint16(2), texts[0].Index)
	s.Equal("second", texts[0].Text)
}

func (s *StoreTestSuite) TestObjectiveTextRoundTripIsByteExact() {
	text := "Clear Embershard Mine – Ærndal Ødegård 02"
	s.store.RecordObjectiveText(entities.ObjectiveText{Quest: questA, Location: embershard, Index: 2, Text: text})

	fresh, c := s.reload(nil)

	texts := fresh.ObjectiveTexts()
	s.Require().Len(texts, 1)
	s.Equal(text, texts[0].Text)
	s.Equal(uint16(2), texts[0].Index)

	s.Equal(text, s.world.ObjectiveText(questA, 2))
	def, ok := s.catalog.FindByObjective(questA, 2)
	s.Require().True(ok)
	s.Equal(embershard, def.Location)

	// quest, location, index, length prefix, raw bytes
	s.Len(c.Records()[1].Data, 8+4+4+2+8+len(text))
}

func (s *StoreTestSuite) TestTrackerDuplicateRejected() {
	err := s.store.AddTracker(&entities.RegionTracker{Global: trackerVar, Region: whiterun})
	s.True(errors.IsAlreadyExists(err))

	err = s.store.AddTracker(&entities.RegionTracker{Global: entities.NoForm, Region: whiterun})
	s.True(errors.IsInvalidArgument(err))
}

func (s *StoreTestSuite) TestIncrementRaisesGlobal() {
	s.Require().NoError(s.store.Increment(whiterun, entities.DifficultyAdept))
	s.Require().NoError(s.store.Increment(whiterun, entities.DifficultyAdept))

	t, ok := s.store.Tracker(whiterun)
	s.Require().True(ok)
	s.Equal(uint32(2), t.Rewards[entities.DifficultyAdept])

	v, _ := s.world.Global(trackerVar)
	s.Equal(float32(1), v)

	err := s.store.Increment(embershard, entities.DifficultyAdept)
	s.True(errors.IsNotFound(err))
}

func (s *StoreTestSuite) TestClearTrackerPolicy() {
	s.Require().NoError(s.store.Increment(whiterun, entities.DifficultyNovice))
	s.Require().NoError(s.store.ClearTracker(whiterun))

	t, _ := s.store.Tracker(whiterun)
	s.False(t.Pending())
	v, _ := s.world.Global(trackerVar)
	s.Equal(float32(0), v)

	keep := s.newStore(false)
	s.Require().NoError(keep.AddTracker(&entities.RegionTracker{Global: trackerVar, Region: whiterun}))
	s.Require().NoError(keep.Increment(whiterun, entities.DifficultyNovice))
	s.Require().NoError(keep.ClearTracker(whiterun))
	v, _ = s.world.Global(trackerVar)
	s.Equal(float32(1), v)
}

func (s *StoreTestSuite) TestTrackerLoadReplacesCounts() {
	s.Require().NoError(s.store.Increment(whiterun, entities.DifficultyNovice))
	s.Require().NoError(s.store.Increment(whiterun, entities.DifficultyMaster))

	c := sim.NewContainer()
	s.Require().NoError(s.store.Save(c))

	fresh := s.newStore(true)
	s.Require().NoError(fresh.AddTracker(&entities.RegionTracker{
		Global:  trackerVar,
		Region:  whiterun,
		Rewards: map[entities.Difficulty]uint32{entities.DifficultyLegendary: 7},
	}))

	// loading the same container twice leaves the same counts
	for i := 0; i < 2; i++ {
		c.Rewind(nil)
		s.Require().NoError(fresh.Load(c))
	}

	t, ok := fresh.Tracker(whiterun)
	s.Require().True(ok)
	s.Equal(map[entities.Difficulty]uint32{
		entities.DifficultyNovice: 1,
		entities.DifficultyMaster: 1,
	}, t.Rewards)
	s.Len(fresh.Trackers(), 1)
}

func (s *StoreTestSuite) TestLoadSkipsForeignVersion() {
	c := sim.NewContainer()
	s.Require().NoError(c.OpenRecord(serialization.RecordReservations, serialization.Version+1))
	s.Require().NoError(c.WriteRecordData([]byte{1, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x1F, 0, 0}))
	s.Require().NoError(c.OpenRecord(host.FourCC("XXXX"), serialization.Version))
	s.Require().NoError(c.WriteRecordData([]byte{1, 2, 3}))
	c.Rewind(nil)

	s.Require().NoError(s.store.Load(c))
	s.Empty(s.store.Reserved())
}

func (s *StoreTestSuite) TestLoadDropsUnresolvedIDs() {
	s.store.Reserve(embershard)
	s.store.Reserve(bleakFalls)
	s.store.RecordObjectiveText(entities.ObjectiveText{Quest: questA, Location: embershard, Index: 1, Text: "gone"})

	s.world.Remap(embershard, entities.NoForm)
	fresh, _ := s.reload(s.world.ResolveSaved)

	s.Equal([]entities.FormID{bleakFalls}, fresh.Reserved())
	s.Empty(fresh.ObjectiveTexts())
}

func (s *StoreTestSuite) TestLoadFollowsRemappedIDs() {
	const moved entities.FormID = 0x06000F00
	s.world.AddLocation(moved, whiterun, "Embershard Mine")
	s.store.Reserve(embershard)

	s.world.Remap(embershard, moved)
	fresh, _ := s.reload(s.world.ResolveSaved)

	s.Equal([]entities.FormID{moved}, fresh.Reserved())
}

func (s *StoreTestSuite) TestLoadKeepsEntriesBeforeTruncation() {
	c := sim.NewContainer()
	s.Require().NoError(c.OpenRecord(serialization.RecordReservations, serialization.Version))
	// claims two ids, carries one
	s.Require().NoError(c.WriteRecordData([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x1F, 0, 0, 0x01, 0x1F}))
	c.Rewind(nil)

	err := s.store.Load(c)
	s.True(errors.IsDataLoss(err))
	s.Empty(s.store.Reserved())

	c = sim.NewContainer()
	s.Require().NoError(c.OpenRecord(serialization.RecordReservations, serialization.Version))
	s.Require().NoError(c.WriteRecordData([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x1F, 0, 0, 0x01, 0x1F, 0, 0}))
	c.Rewind(nil)

	s.Require().NoError(s.store.Load(c))
	s.Equal([]entities.FormID{embershard, bleakFalls}, s.store.Reserved())
}

func (s *StoreTestSuite) TestRevertKeepsTrackers() {
	s.store.Reserve(embershard)
	s.store.RecordObjectiveText(entities.ObjectiveText{Quest: questA, Location: embershard, Index: 1, Text: "x"})
	s.Require().NoError(s.store.Increment(whiterun, entities.DifficultyExpert))

	s.store.Revert()

	s.Empty(s.store.Reserved())
	s.Empty(s.store.ObjectiveTexts())
	s.True(s.store.IsTracked(whiterun))
	t, _ := s.store.Tracker(whiterun)
	s.False(t.Pending())
}

func (s *StoreTestSuite) TestDecodeRecord() {
	s.store.Reserve(embershard)
	s.Require().NoError(s.store.Increment(whiterun, entities.DifficultyAdept))

	c := sim.NewContainer()
	s.Require().NoError(s.store.Save(c))
	records := c.Records()
	s.Require().Len(records, 3)

	info := func(r sim.Record) host.RecordInfo {
		return host.RecordInfo{Type: r.Type, Version: r.Version, Length: uint32(len(r.Data))}
	}

	rloc, err := serialization.DecodeRecord(info(records[0]), records[0].Data)
	s.Require().NoError(err)
	s.Equal("RLOC", rloc.Tag)
	s.Equal([]entities.FormID{embershard}, rloc.Reservations)

	otxt, err := serialization.DecodeRecord(info(records[1]), records[1].Data)
	s.Require().NoError(err)
	s.Empty(otxt.Objectives)

	trcr, err := serialization.DecodeRecord(info(records[2]), records[2].Data)
	s.Require().NoError(err)
	s.Require().Len(trcr.Trackers, 1)
	s.Equal(uint32(1), trcr.Trackers[0].Rewards[entities.DifficultyAdept])

	_, err = serialization.DecodeRecord(host.RecordInfo{Type: host.FourCC("XXXX"), Version: serialization.Version}, nil)
	s.True(errors.IsFailedPrecondition(err))

	_, err = serialization.DecodeRecord(host.RecordInfo{Type: serialization.RecordReservations, Version: 9}, nil)
	s.True(errors.IsFailedPrecondition(err))
}
