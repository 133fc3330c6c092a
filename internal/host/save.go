package host

import (
	"encoding/binary"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// RecordInfo describes the record a SaveReader is positioned on
type RecordInfo struct {
	Type    uint32
	Version uint32
	Length  uint32
}

// SaveWriter is the host save container during a save
type SaveWriter interface {
	// OpenRecord starts a new record; subsequent writes go into it
	OpenRecord(recordType, version uint32) error
	WriteRecordData(p []byte) error
}

// SaveReader is the host save container during a load
type SaveReader interface {
	// NextRecord advances to the next record, false when exhausted
	NextRecord() (RecordInfo, bool)
	// ReadRecordData fills p from the current record or fails
	ReadRecordData(p []byte) error
	// ResolveFormID translates an id written by an earlier session into the
	// id of the same object under the current load order
	ResolveFormID(old entities.FormID) (entities.FormID, bool)
}

// FourCC packs a four character record tag the way the host stores it
func FourCC(tag string) uint32 {
	var b [4]byte
	copy(b[:], tag)
	return binary.LittleEndian.Uint32(b[:])
}

// TagString unpacks a record tag for logging
func TagString(tag uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], tag)
	return string(b[:])
}
