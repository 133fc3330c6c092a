package serialization

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// Format version written into every record. Records of any other version
// are skipped on load.
const Version uint32 = 1

// Record tags
var (
	RecordReservations = host.FourCC("RLOC")
	RecordObjectives   = host.FourCC("OTXT")
	RecordTrackers     = host.FourCC("TRCR")
)

// Fixed element sizes, used to bound counts read from a record
const (
	sizeCount       = 8
	sizeReservation = 4
	sizeObjective   = 4 + 4 + 2 + 8
	sizeTracker     = 4 + 4 + 8
	sizeReward      = 4 + 4
)

// encoder accumulates one record element at a time
type encoder struct {
	buf bytes.Buffer
	tmp [8]byte
}

func (e *encoder) u16(v uint16) {
	binary.LittleEndian.PutUint16(e.tmp[:2], v)
	e.buf.Write(e.tmp[:2])
}

func (e *encoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.tmp[:4], v)
	e.buf.Write(e.tmp[:4])
}

func (e *encoder) u64(v uint64) {
	binary.LittleEndian.PutUint64(e.tmp[:8], v)
	e.buf.Write(e.tmp[:8])
}

func (e *encoder) str(s string) {
	e.u64(uint64(len(s)))
	e.buf.WriteString(s)
}

// flush hands the pending bytes to the writer
func (e *encoder) flush(w host.SaveWriter) error {
	if e.buf.Len() == 0 {
		return nil
	}
	err := w.WriteRecordData(e.buf.Bytes())
	e.buf.Reset()
	return err
}

// source is where record bytes are read from: a host.SaveReader during a
// load, or a byte slice when inspecting a cosave offline
type source interface {
	ReadRecordData(p []byte) error
}

// decoder reads fixed-width little-endian values and tracks how much of
// the record is left
type decoder struct {
	src    source
	remain uint64
	tmp    [8]byte
}

func newDecoder(src source, length uint32) *decoder {
	return &decoder{src: src, remain: uint64(length)}
}

func (d *decoder) read(n int) ([]byte, error) {
	if uint64(n) > d.remain {
		return nil, errors.DataLossf("record truncated: need %d bytes, %d left", n, d.remain)
	}
	p := d.tmp[:n]
	if err := d.src.ReadRecordData(p); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to read record data")
	}
	d.remain -= uint64(n)
	return p, nil
}

func (d *decoder) u16() (uint16, error) {
	p, err := d.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (d *decoder) u32() (uint32, error) {
	p, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (d *decoder) u64() (uint64, error) {
	p, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

func (d *decoder) formID() (entities.FormID, error) {
	v, err := d.u32()
	return entities.FormID(v), err
}

// count reads an element count and checks it fits in the record
func (d *decoder) count(elemSize uint64) (uint64, error) {
	n, err := d.u64()
	if err != nil {
		return 0, err
	}
	if n > 0 && elemSize > 0 && n > d.remain/elemSize {
		return 0, errors.DataLossf("record claims %d entries, only %d bytes left", n, d.remain)
	}
	return n, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u64()
	if err != nil {
		return "", err
	}
	if n > d.remain {
		return "", errors.DataLossf("string of %d bytes exceeds record, %d left", n, d.remain)
	}
	if n == 0 {
		return "", nil
	}
	p := make([]byte, n)
	if err := d.src.ReadRecordData(p); err != nil {
		return "", errors.WrapWithCode(err, errors.CodeDataLoss, "failed to read string")
	}
	d.remain -= n
	return string(p), nil
}

func decodeReservations(d *decoder) ([]entities.FormID, error) {
	n, err := d.count(sizeReservation)
	if err != nil {
		return nil, err
	}
	out := make([]entities.FormID, 0, n)
	for i := uint64(0); i < n; i++ {
		id, err := d.formID()
		if err != nil {
			return out, err
		}
		out = append(out, id)
	}
	return out, nil
}

func decodeObjectives(d *decoder) ([]entities.ObjectiveText, error) {
	n, err := d.count(sizeObjective)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ObjectiveText, 0, n)
	for i := uint64(0); i < n; i++ {
		var o entities.ObjectiveText
		if o.Quest, err = d.formID(); err != nil {
			return out, err
		}
		if o.Location, err = d.formID(); err != nil {
			return out, err
		}
		if o.Index, err = d.u16(); err != nil {
			return out, err
		}
		if o.Text, err = d.str(); err != nil {
			return out, err
		}
		out = append(out, o)
	}
	return out, nil
}

func decodeTrackers(d *decoder) ([]entities.RegionTracker, error) {
	n, err := d.count(sizeTracker)
	if err != nil {
		return nil, err
	}
	out := make([]entities.RegionTracker, 0, n)
	for i := uint64(0); i < n; i++ {
		var t entities.RegionTracker
		if t.Global, err = d.formID(); err != nil {
			return out, err
		}
		if t.Region, err = d.formID(); err != nil {
			return out, err
		}
		rewards, err := d.count(sizeReward)
		if err != nil {
			return out, err
		}
		t.Rewards = make(map[entities.Difficulty]uint32, rewards)
		for j := uint64(0); j < rewards; j++ {
			tier, err := d.u32()
			if err != nil {
				return out, err
			}
			amount, err := d.u32()
			if err != nil {
				return out, err
			}
			t.Rewards[entities.Difficulty(tier)] = amount
		}
		out = append(out, t)
	}
	return out, nil
}

// sortedTiers returns the tiers of a reward map in ascending order
func sortedTiers(rewards map[entities.Difficulty]uint32) []entities.Difficulty {
	tiers := make([]entities.Difficulty, 0, len(rewards))
	for d := range rewards {
		tiers = append(tiers, d)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	return tiers
}

// Decoded is the content of one record as written, ids unresolved
type Decoded struct {
	Tag          string
	Version      uint32
	Reservations []entities.FormID
	Objectives   []entities.ObjectiveText
	Trackers     []entities.RegionTracker
}

type byteSource struct {
	data []byte
}

func (b *byteSource) ReadRecordData(p []byte) error {
	if len(p) > len(b.data) {
		return errors.DataLossf("read of %d bytes past end", len(p))
	}
	copy(p, b.data)
	b.data = b.data[len(p):]
	return nil
}

// DecodeRecord decodes a raw record without touching any state. Records of
// an unknown type or version are reported as FailedPrecondition.
func DecodeRecord(info host.RecordInfo, data []byte) (*Decoded, error) {
	out := &Decoded{Tag: host.TagString(info.Type), Version: info.Version}
	if info.Version != Version {
		return out, errors.FailedPreconditionf("record %s has version %d, expected %d", out.Tag, info.Version, Version)
	}

	d := newDecoder(&byteSource{data: data}, uint32(len(data)))
	var err error
	switch info.Type {
	case RecordReservations:
		out.Reservations, err = decodeReservations(d)
	case RecordObjectives:
		out.Objectives, err = decodeObjectives(d)
	case RecordTrackers:
		out.Trackers, err = decodeTrackers(d)
	default:
		return out, errors.FailedPreconditionf("unknown record type %s", out.Tag)
	}
	return out, err
}
