package sim

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// UniqueID identifies the module's records inside a save
var UniqueID = host.FourCC("BQNG")

// Record is one record of a save container
type Record struct {
	Type    uint32
	Version uint32
	Data    []byte
}

// Container is an in-memory save container. It is written through
// host.SaveWriter and read back through host.SaveReader.
type Container struct {
	records []Record
	open    bool

	cursor  int
	offset  int
	resolve func(entities.FormID) (entities.FormID, bool)
}

var (
	_ host.SaveWriter = (*Container)(nil)
	_ host.SaveReader = (*Container)(nil)
)

// NewContainer returns an empty container
func NewContainer() *Container {
	return &Container{cursor: -1}
}

// OpenRecord starts a new record
func (c *Container) OpenRecord(recordType, version uint32) error {
	c.records = append(c.records, Record{Type: recordType, Version: version})
	c.open = true
	return nil
}

// WriteRecordData appends to the open record
func (c *Container) WriteRecordData(p []byte) error {
	if !c.open {
		return errors.FailedPreconditionf("no open record")
	}
	last := &c.records[len(c.records)-1]
	last.Data = append(last.Data, p...)
	return nil
}

// Records returns the records written so far
func (c *Container) Records() []Record {
	return append([]Record(nil), c.records...)
}

// Rewind prepares the container for reading; resolve translates saved ids
// and defaults to identity
func (c *Container) Rewind(resolve func(entities.FormID) (entities.FormID, bool)) {
	c.open = false
	c.cursor = -1
	c.offset = 0
	c.resolve = resolve
}

// NextRecord advances to the next record
func (c *Container) NextRecord() (host.RecordInfo, bool) {
	c.cursor++
	c.offset = 0
	if c.cursor >= len(c.records) {
		return host.RecordInfo{}, false
	}
	r := c.records[c.cursor]
	return host.RecordInfo{Type: r.Type, Version: r.Version, Length: uint32(len(r.Data))}, true
}

// ReadRecordData fills p from the current record
func (c *Container) ReadRecordData(p []byte) error {
	if c.cursor < 0 || c.cursor >= len(c.records) {
		return errors.FailedPreconditionf("no current record")
	}
	data := c.records[c.cursor].Data
	if c.offset+len(p) > len(data) {
		return errors.DataLossf("record %s: read of %d bytes past end", host.TagString(c.records[c.cursor].Type), len(p))
	}
	copy(p, data[c.offset:])
	c.offset += len(p)
	return nil
}

// ResolveFormID translates a saved id
func (c *Container) ResolveFormID(old entities.FormID) (entities.FormID, bool) {
	if c.resolve == nil {
		return old, !old.IsNone()
	}
	return c.resolve(old)
}

// Marshal encodes the container as the module's cosave blob: the unique id,
// a record count, then type, version, length and data per record.
func (c *Container) Marshal() []byte {
	var buf bytes.Buffer
	hdr := make([]byte, 4)

	put := func(v uint32) {
		binary.LittleEndian.PutUint32(hdr, v)
		buf.Write(hdr)
	}

	put(UniqueID)
	put(uint32(len(c.records)))
	for _, r := range c.records {
		put(r.Type)
		put(r.Version)
		put(uint32(len(r.Data)))
		buf.Write(r.Data)
	}
	return buf.Bytes()
}

// Unmarshal decodes a blob produced by Marshal
func Unmarshal(blob []byte) (*Container, error) {
	rd := bytes.NewReader(blob)
	hdr := make([]byte, 4)

	get := func() (uint32, error) {
		if _, err := io.ReadFull(rd, hdr); err != nil {
			return 0, errors.WrapWithCode(err, errors.CodeDataLoss, "truncated cosave")
		}
		return binary.LittleEndian.Uint32(hdr), nil
	}

	id, err := get()
	if err != nil {
		return nil, err
	}
	if id != UniqueID {
		return nil, errors.DataLossf("not a cosave of this module: %s", host.TagString(id))
	}
	count, err := get()
	if err != nil {
		return nil, err
	}

	c := NewContainer()
	for i := uint32(0); i < count; i++ {
		var r Record
		if r.Type, err = get(); err != nil {
			return nil, err
		}
		if r.Version, err = get(); err != nil {
			return nil, err
		}
		n, err := get()
		if err != nil {
			return nil, err
		}
		if int64(n) > int64(rd.Len()) {
			return nil, errors.DataLossf("record %s claims %d bytes, %d left", host.TagString(r.Type), n, rd.Len())
		}
		if n > 0 {
			r.Data = make([]byte, n)
			if _, err := io.ReadFull(rd, r.Data); err != nil {
				return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "truncated record")
			}
		}
		c.records = append(c.records, r)
	}
	return c, nil
}
